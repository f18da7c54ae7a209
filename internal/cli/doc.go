// Package cli implements the interactive credkeeper shell.
//
// The shell reads commands line by line:
//
//	help            show available commands
//	register        create an account
//	login           check a username and password
//	exit | quit     leave the program
//
// Passwords are read without echo when stdin is a terminal.
package cli
