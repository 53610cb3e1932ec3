// Package command parses the line-oriented zonegen command protocol.
//
// Each input line holds exactly one command:
//
//	help
//	send
//	quit
//	drop
//	[update] add <name> <ttl> <class> <type> <data>
//	[update] del[ete] <name> <class> <type>
//
// Parsing is strict ASCII and must consume the whole line. Failures are
// reported as *ParseError values carrying the grammar context stack so the
// caller can print a precise diagnostic.
package command

// Command is a parsed protocol line. The concrete values are Help, Send,
// Quit, Drop, Add and Delete.
type Command interface {
	command()
}

// Update is a Command that mutates the record store: Add or Delete.
type Update interface {
	Command
	update()
}

// Help asks for the command summary.
type Help struct{}

// Send commits the pending transaction.
type Send struct{}

// Quit ends the session, discarding any pending transaction.
type Quit struct{}

// Drop removes every record of every zone.
type Drop struct{}

// Add inserts a record or replaces the TTL and data of the record with the
// same owner, class and type.
type Add struct {
	Name  string
	TTL   uint32
	Class string
	Type  string
	Data  string
}

// Delete removes the records with the given owner, class and type.
type Delete struct {
	Name  string
	Class string
	Type  string
}

func (Help) command()   {}
func (Send) command()   {}
func (Quit) command()   {}
func (Drop) command()   {}
func (Add) command()    {}
func (Delete) command() {}

func (Add) update()    {}
func (Delete) update() {}
