// Package cli provides the interactive imgbox command-line client.
//
// It wires configuration and the HTTP service into a small REPL:
//
//	register        create an account (password is read without echo)
//	get <id>        show one user
//	list            list all users
//	upload <path>   upload a jpeg or png photo
//	ping            check the server and its store
//	help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or stdin is closed.
package cli
