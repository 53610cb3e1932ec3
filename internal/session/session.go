// Package session runs the interactive command loop of zonegen.
//
// Lines are parsed one at a time and applied to the record store inside a
// single pending transaction. The transaction is opened by the first
// mutating command, shared by all following ones, committed by "send" and
// rolled back when the session ends without one.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jroosing/zonegen/internal/command"
	"github.com/jroosing/zonegen/internal/database"
	"github.com/jroosing/zonegen/internal/resolve"
)

// ErrInput wraps failures of the line source other than end of input.
var ErrInput = errors.New("cannot read input")

// Store opens transactions on the record store.
type Store interface {
	Begin() (*database.Tx, error)
}

// Session holds the collaborators of the command loop.
type Session struct {
	Store    Store
	Resolver resolve.Resolver
	Out      io.Writer // help text and parse diagnostics
	Logger   *slog.Logger
	Version  string
}

// Run reads and applies commands until quit, end of input or a fatal error.
// Any transaction still pending on return has been rolled back.
//
// Grammar and resolution errors are reported and the loop continues. Store
// and input failures end the session with an error.
func (s *Session) Run(lines LineReader) (err error) {
	p := &pending{store: s.Store}
	defer func() {
		discarded, rbErr := p.rollback()
		if discarded {
			s.Logger.Warn("discarding changes")
		}
		if rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	for {
		line, readErr := lines.ReadLine()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, ErrInterrupted) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrInput, readErr)
		}
		if line == "" {
			continue
		}

		cmd, parseErr := command.Parse(line)
		if parseErr != nil {
			s.reportParseError(parseErr)
			continue
		}

		switch c := cmd.(type) {
		case command.Help:
			s.printHelp()
		case command.Send:
			if err := p.commit(); err != nil {
				return err
			}
		case command.Quit:
			return nil
		case command.Drop:
			if err := s.drop(p); err != nil {
				return err
			}
		case command.Add:
			if err := s.add(p, c); err != nil {
				return err
			}
		case command.Delete:
			if err := s.delete(p, c); err != nil {
				return err
			}
		}
	}
}

func (s *Session) reportParseError(err error) {
	var perr *command.ParseError
	if errors.As(err, &perr) {
		fmt.Fprint(s.Out, perr.Describe())
		return
	}
	fmt.Fprintln(s.Out, err)
}

func (s *Session) drop(p *pending) error {
	tx, err := p.get()
	if err != nil {
		return err
	}
	n, err := tx.Drop()
	if err != nil {
		return fmt.Errorf("failed to delete the contents of the database: %w", err)
	}
	s.Logger.Info("drop request", "records", n)
	return nil
}

func (s *Session) add(p *pending, a command.Add) error {
	s.Logger.Info("add request", "name", a.Name, "ttl", a.TTL, "class", a.Class, "type", a.Type, "data", a.Data)

	zone, subdomain, ok := s.resolve(a.Name)
	if !ok {
		return nil
	}
	tx, err := p.get()
	if err != nil {
		return err
	}
	rr := database.Record{Subdomain: subdomain, TTL: a.TTL, Class: a.Class, Type: a.Type, Data: a.Data}
	if err := tx.Add(zone, rr); err != nil {
		return fmt.Errorf("failed to add a record: %w", err)
	}
	return nil
}

func (s *Session) delete(p *pending, d command.Delete) error {
	s.Logger.Info("delete request", "name", d.Name, "class", d.Class, "type", d.Type)

	zone, subdomain, ok := s.resolve(d.Name)
	if !ok {
		return nil
	}
	tx, err := p.get()
	if err != nil {
		return err
	}
	n, err := tx.Delete(zone, subdomain, d.Class, d.Type)
	if err != nil {
		return fmt.Errorf("failed to delete a record: %w", err)
	}
	s.Logger.Debug("deleted records", "zone", zone, "subdomain", subdomain, "count", n)
	return nil
}

// resolve runs before the store is touched; a failure only skips the
// current command.
func (s *Session) resolve(name string) (zone, subdomain string, ok bool) {
	zone, subdomain, err := s.Resolver.Resolve(name)
	if err != nil {
		s.Logger.Error("cannot resolve zone, command ignored", "name", name, "err", err)
		fmt.Fprintf(s.Out, "Error: %v\n", err)
		return "", "", false
	}
	return zone, subdomain, true
}

// pending is the single open transaction of a session, created on first use.
type pending struct {
	store Store
	tx    *database.Tx
}

func (p *pending) get() (*database.Tx, error) {
	if p.tx == nil {
		tx, err := p.store.Begin()
		if err != nil {
			return nil, err
		}
		p.tx = tx
	}
	return p.tx, nil
}

// commit commits the open transaction, if any.
func (p *pending) commit() error {
	if p.tx == nil {
		return nil
	}
	tx := p.tx
	p.tx = nil
	return tx.Commit()
}

// rollback rolls back the open transaction, if any, and reports whether
// there was one.
func (p *pending) rollback() (bool, error) {
	if p.tx == nil {
		return false, nil
	}
	tx := p.tx
	p.tx = nil
	return true, tx.Rollback()
}
