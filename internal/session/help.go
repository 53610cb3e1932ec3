package session

import "fmt"

func (s *Session) printHelp() {
	version := s.Version
	if version == "" {
		version = "unknown"
	}
	fmt.Fprintf(s.Out, `zonegen v%s
send                      (Send the update request)
quit                      (Quit, any pending update is not sent)
help                      (Display this message)
drop                      (Delete the contents of the database)
[update] add ....         (Add the given record to the zone)
[update] del[ete] ....    (Remove the given record(s) from the zone)
`, version)
}
