package root

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
)

type simulateOptions struct {
	profession string
	seed       uint64
	turns      int
	doodads    bool
}

// simulation is the outcome of one simulated game.
type simulation struct {
	Turns     int
	Escaped   int
	Won       bool
	Statement engine.Statement
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a game with a simple buy-when-affordable strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			if opts.profession == "" {
				opts.profession = cat.Professions[0].ID
			}
			sim, err := simulate(cmd.OutOrStdout(), engine.New(cat), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "turns played: %d\n", sim.Turns)
			fmt.Fprintf(out, "net worth: %d\n", sim.Statement.NetWorth)
			fmt.Fprintf(out, "passive income: %d of %d expenses\n", sim.Statement.TotalIncome-sim.Statement.EffectiveSalary, sim.Statement.TotalExpenses)
			switch {
			case sim.Won:
				fmt.Fprintln(out, "result: reached the fast track target")
			case sim.Escaped > 0:
				fmt.Fprintf(out, "result: escaped the rat race on turn %d\n", sim.Escaped)
			default:
				fmt.Fprintln(out, "result: still in the rat race")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.profession, "profession", "", "profession id (default: first in catalog)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "dice seed")
	cmd.Flags().IntVar(&opts.turns, "turns", 50, "maximum turns to play")
	cmd.Flags().BoolVar(&opts.doodads, "doodads", false, "buy doodads when affordable")
	return cmd
}

// simulate plays opts.turns turns, or until the game is won, and writes one
// line per turn to out.
func simulate(out io.Writer, eng *engine.Engine, opts simulateOptions) (*simulation, error) {
	sess, err := eng.Start(opts.profession, opts.seed)
	if err != nil {
		return nil, err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TURN\tPHASE\tROLL\tSPACE\tACTION\tCASH\tCASH FLOW")

	sim := &simulation{}
	for sim.Turns < opts.turns {
		turn := sess.State().Player.CurrentTurn
		phase := sess.State().CurrentPhase

		roll, err := sess.RollDice(nil)
		if err != nil {
			return nil, fmt.Errorf("turn %d: roll: %w", turn, err)
		}
		action, err := decide(sess, roll, opts)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %s: %w", turn, roll.Space, err)
		}

		res, err := sess.EndTurn()
		if err != nil {
			return nil, fmt.Errorf("turn %d: end turn: %w", turn, err)
		}
		sim.Turns++
		if res.Escaped {
			sim.Escaped = turn
		}

		st := sess.State()
		fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%s\t%d\t%d\n",
			turn, phase, roll.Dice, roll.Space, action, st.Player.CashOnHand, sess.Ledger().CashFlow)

		if res.Won {
			sim.Won = true
			break
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	sim.Statement = sess.Statement()
	return sim, nil
}

// decide answers whatever the roll left pending.
func decide(sess *engine.Session, roll engine.RollResult, opts simulateOptions) (string, error) {
	if roll.Draw == nil {
		return "-", nil
	}
	cash := sess.State().Player.CashOnHand

	switch roll.Space {
	case catalog.SpaceOpportunity:
		card := roll.Draw.Opportunity
		if card == nil {
			return "-", nil
		}
		if card.UpfrontCost() > cash {
			return "pass " + card.ID, sess.PassCard()
		}
		_, err := sess.Purchase(card.ID)
		return "buy " + card.ID, err

	case catalog.SpaceDoodad:
		d := roll.Draw.Doodad
		if d == nil {
			return "-", nil
		}
		if !opts.doodads || d.Cost > cash {
			return "skip " + d.ID, sess.PassDoodad()
		}
		_, err := sess.BuyDoodad(d.ID)
		return "buy " + d.ID, err

	case catalog.SpaceCharity:
		if sess.State().Pending == nil {
			return "-", nil
		}
		donation, err := sess.CharityDonation()
		if err != nil {
			return "", err
		}
		if donation > cash {
			return "decline charity", sess.DeclineCharity()
		}
		_, err = sess.AcceptCharity()
		return fmt.Sprintf("donate %d", donation), err
	}

	if roll.Draw.Event != nil {
		return roll.Draw.Event.ID, nil
	}
	return "-", nil
}
