// Package cli provides the interactive medcli command-line client.
//
// It wires configuration, the local session store, the API client and an
// interactive REPL. Every page-like command is a navigation: the REPL turns
// it into a path, the router applies static redirects and the navigation
// guard, and the resulting route is rendered. Signed-out users who open a
// protected page land on the login form, which forwards them to the page they
// asked for once the credentials are accepted.
//
// A background watcher pings the backend health endpoint and shows the
// online/offline mode in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
