// Package cli provides the interactive medmod command-line client.
//
// It is a development companion for servers running the "signed" identity
// mode: it mints HS256 identity tokens with the server's shared secret and
// drives the user endpoints of the HTTP API.
//
// Commands:
//   - token            print a signed identity token for a prompted profile
//   - register         mint a token and create the user on the server
//   - get <id>         show a user
//   - delete <id>      remove a user
//   - health           query the gRPC health service
//   - secret           print a random signing secret for server configuration
//   - exit | quit      leave the program
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
