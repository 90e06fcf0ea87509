// Gyst generates git commit messages from your staged changes with AI.
//
// It categorizes the staged diff, asks a backend for a conventional commit
// message, and commits once you approve, edit, or pick a suggestion. The
// default relay backend needs no API key; direct mode talks to Anthropic
// with your own key.
//
// Usage:
//
//	gyst commit                 # generate, review, commit
//	gyst commit --quick         # commit the first suggestion
//	gyst suggest --count 5      # pick from several suggestions
//	gyst explain "undo my last commit"
//	gyst diff                   # summarize staged changes
//	gyst config --api-key <key> # store a key and switch to direct mode
//
// See https://github.com/dshills/gyst for full documentation.
package main
