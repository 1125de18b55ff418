// peopledb stores person records in one relational table and serves them
// over HTTP or from the command line.
//
// Usage:
//
//	# Start the HTTP API
//	peopledb serve
//
//	# Load a person, or create one from all six fields
//	peopledb person 1
//	peopledb person 1 Ivan Krause 1990-05-10 0 Moscow
//
//	# List, expand or delete everyone matching one predicate
//	peopledb query birth_city '<>' Moscow --expand
//	peopledb query id '>' 100 --delete
//
// Configuration is read from PEOPLEDB_* environment variables and an
// optional .env file in the working directory.
package main

func main() {
	Execute()
}
