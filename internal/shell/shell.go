// Package shell implements a line-oriented text protocol over the rules
// engine, in the spirit of UCI: one command per line, replies on the output.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// errUsage marks a malformed command line.
var errUsage = errors.New("usage")

// errNoStorage is returned by storage commands when none is configured.
var errNoStorage = errors.New("storage disabled")

// Shell holds the current game and an optional store.
type Shell struct {
	game  *game.Game
	store *storage.Storage
	out   io.Writer

	// recorded is set once the current game's result has been counted.
	// It survives undo so a game is only counted once.
	recorded bool
	quit     bool
}

// New creates a shell on a fresh game. store may be nil.
func New(store *storage.Storage, out io.Writer) *Shell {
	return &Shell{
		game:  game.NewGame(),
		store: store,
		out:   out,
	}
}

// Game returns the current game.
func (s *Shell) Game() *game.Game {
	return s.game
}

// Run reads commands until quit or end of input.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if s.quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line.
func (s *Shell) Execute(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		s.setGame(game.NewGame())
		fmt.Fprintln(s.out, "ok")
	case "position":
		return s.handlePosition(args)
	case "d":
		fmt.Fprint(s.out, s.game.String())
	case "fen":
		fmt.Fprintln(s.out, s.game.FEN())
	case "moves":
		return s.handleMoves(args)
	case "legal":
		s.handleLegal()
	case "move":
		return s.handleMove(args)
	case "undo":
		return s.handleUndo()
	case "draw":
		return s.handleDraw(args)
	case "status":
		s.handleStatus()
	case "perft":
		return s.handlePerft(args)
	case "save":
		return s.handleSave(args)
	case "load":
		return s.handleLoad(args)
	case "list":
		return s.handleList()
	case "delete":
		return s.handleDelete(args)
	case "quit":
		s.quit = true
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *Shell) setGame(g *game.Game) {
	s.game = g
	s.recorded = false
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position fen <fen>
func (s *Shell) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errUsage, "position startpos | position fen <fen>")
	}

	switch args[0] {
	case "startpos":
		s.setGame(game.NewGame())
	case "fen":
		g, err := game.ParseFEN(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		s.setGame(g)
	default:
		return errors.Wrapf(errUsage, "position %s", args[0])
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

// handleMoves lists the destinations of the piece on a square.
func (s *Shell) handleMoves(args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errUsage, "moves <square>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}
	p := s.game.PieceAt(sq)
	if p == nil {
		return errors.Wrapf(game.ErrPieceNotOnBoard, "no piece on %s", sq)
	}

	dests := p.PossibleMoves(s.game)
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.String()
	}
	fmt.Fprintf(s.out, "%s: %s\n", p, strings.Join(names, " "))
	return nil
}

// handleLegal prints every legal move of the side to move.
func (s *Shell) handleLegal() {
	moves := s.game.LegalMoves(s.game.Turn())
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	sort.Strings(names)
	fmt.Fprintf(s.out, "%d: %s\n", len(names), strings.Join(names, " "))
}

func (s *Shell) handleMove(args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errUsage, "move <from><to>")
	}
	if s.game.HasEnded() {
		return errors.Errorf("game is over: %s", s.game.Outcome())
	}
	turn, err := s.game.ApplyUCI(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "ok %s\n", turn)
	s.reportStatus()
	return nil
}

func (s *Shell) handleUndo() error {
	turn, err := s.game.Undo()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "undone %s\n", turn)
	return nil
}

func (s *Shell) handleDraw(args []string) error {
	on := true
	if len(args) > 0 {
		switch args[0] {
		case "on":
		case "off":
			on = false
		default:
			return errors.Wrap(errUsage, "draw [on|off]")
		}
	}
	s.game.SetDrawn(on)
	s.reportStatus()
	return nil
}

func (s *Shell) handleStatus() {
	fmt.Fprintf(s.out, "turn %s check %t ended %t outcome %s\n",
		s.game.Turn(), s.game.Check(s.game.Turn()), s.game.HasEnded(), s.game.Outcome())
}

// reportStatus prints check or game-over notices and counts finished games.
func (s *Shell) reportStatus() {
	o := s.game.Outcome()
	if o.Status == game.Ongoing {
		if s.game.Check(s.game.Turn()) {
			fmt.Fprintf(s.out, "check %s\n", s.game.Turn())
		}
		return
	}

	fmt.Fprintf(s.out, "result %s\n", o)
	if s.store == nil || s.recorded {
		return
	}
	if err := s.store.RecordResult(o); err != nil {
		fmt.Fprintf(s.out, "error: record result: %v\n", err)
		return
	}
	s.recorded = true
}

func (s *Shell) handlePerft(args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errUsage, "perft <depth>")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return errors.Wrapf(errUsage, "perft depth %q", args[0])
	}

	start := time.Now()
	divide := game.Divide(s.game, depth)
	keys := make([]string, 0, len(divide))
	var total int64
	for k, n := range divide {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.out, "%s: %d\n", k, divide[k])
	}
	fmt.Fprintf(s.out, "nodes %d time %s\n", total, time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Shell) handleSave(args []string) error {
	if s.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.Wrap(errUsage, "save <name>")
	}
	if err := s.store.SaveGame(args[0], s.game); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *Shell) handleLoad(args []string) error {
	if s.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.Wrap(errUsage, "load <name>")
	}
	g, err := s.store.LoadGame(args[0])
	if err != nil {
		return err
	}
	s.setGame(g)
	// A finished game was counted when it ended.
	s.recorded = g.HasEnded()
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *Shell) handleList() error {
	if s.store == nil {
		return errNoStorage
	}
	games, err := s.store.ListGames()
	if err != nil {
		return err
	}
	for _, info := range games {
		fmt.Fprintf(s.out, "%s\t%d\t%s\t%s\n", info.Name, info.Ply, info.Outcome, info.FEN)
	}
	fmt.Fprintf(s.out, "%d games\n", len(games))
	return nil
}

func (s *Shell) handleDelete(args []string) error {
	if s.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.Wrap(errUsage, "delete <name>")
	}
	if err := s.store.DeleteGame(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}
