// Package play runs a case in the terminal. It is meant for authors walking through their scene graph.
package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/myrjola/gaslight/internal/content"
	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/logging"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/progression"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{ //nolint:gochecknoglobals // cobra command group
	ID:    "play",
	Title: "Playing",
}

var ErrUnknownCase = errors.NewSentinel("unknown case")

type Options struct {
	CaseID    string
	Name      string
	Archetype models.Archetype
}

func NewCommand() *cobra.Command {
	var (
		opts      Options
		archetype string
		seed      uint64
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:     "play",
		GroupID: Group.ID,
		Short:   "Play a built-in case in the terminal",
		Long: `Plays a case from the built-in content. Type the number or id of a choice to make it,
"clue N" to search for a clue, "board" to show the evidence board, "connect ID ID..." to form a deduction,
"ability" to use the archetype ability and "quit" to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Archetype = models.Archetype(archetype)
			lib, err := content.LoadLibrary(content.Builtin())
			if err != nil {
				return errors.Wrap(err, "load content")
			}
			src := dice.NewSource(seed)
			if !cmd.Flags().Changed("seed") {
				if src, err = dice.NewSeededSource(); err != nil {
					return errors.Wrap(err, "seed dice")
				}
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				AddSource:   false,
				Level:       level,
				ReplaceAttr: nil,
			})))
			s := NewSession(logger, lib, dice.NewRoller(src))
			return s.Play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.CaseID, "case", "the-drowned-clerk", "case to play")
	cmd.Flags().StringVar(&opts.Name, "name", "Inspector Lestrange", "investigator name")
	cmd.Flags().StringVar(&archetype, "archetype", string(models.ArchetypeDeductionist), "investigator archetype")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for repeatable dice")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every roll to stderr")
	return cmd
}

// Session plays one case against an in-memory save store.
type Session struct {
	logger      *slog.Logger
	library     *content.Library
	engine      *engine.Engine
	progression *progression.Progression
	saves       *saves.Manager
}

func NewSession(logger *slog.Logger, lib *content.Library, roller *dice.Roller) *Session {
	manager := saves.NewManager(saves.NewMemoryStore(), logger, nil)
	return &Session{
		logger:      logger,
		library:     lib,
		engine:      engine.New(logger, roller, nil),
		progression: progression.New(logger, manager, nil),
		saves:       manager,
	}
}

// evenAllocation spreads the bonus points over the faculties in canonical order.
func evenAllocation(points int) map[models.Faculty]int {
	allocation := make(map[models.Faculty]int, len(models.AllFaculties))
	for i := range points {
		allocation[models.AllFaculties[i%len(models.AllFaculties)]]++
	}
	return allocation
}

// Play runs the case until it ends, the player quits or in is exhausted.
func (s *Session) Play(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	caseData, ok := s.library.Case(opts.CaseID)
	if !ok {
		return errors.Wrap(ErrUnknownCase, "play", slog.String("case", opts.CaseID))
	}
	inv, err := s.progression.NewInvestigator(opts.Name, opts.Archetype,
		evenAllocation(s.progression.Archetypes().BonusPoints))
	if err != nil {
		return errors.Wrap(err, "create investigator")
	}
	state := models.NewGameState(inv)
	scene, err := s.progression.StartCase(state, caseData)
	if err != nil {
		return errors.Wrap(err, "start case")
	}
	ctx = logging.WithGame(ctx, caseData.Meta.ID, progression.AutosaveSlot)
	_, _ = fmt.Fprintf(out, "%s\n%s\n", caseData.Meta.Title, caseData.Meta.Synopsis)

	t := &turn{s: s, out: out, state: state, caseData: caseData}
	scanner := bufio.NewScanner(in)
	for {
		if err = t.beginEncounter(scene); err != nil {
			return err
		}
		t.printScene(scene)
		if t.isFinal(scene) {
			return t.complete(ctx)
		}
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return errors.Wrap(scanner.Err(), "read command")
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			return nil
		}
		next, cmdErr := t.command(line, scene)
		if cmdErr != nil {
			_, _ = fmt.Fprintf(out, "! %s\n", errorMessage(cmdErr))
			continue
		}
		scene = next
	}
}

type turn struct {
	s        *Session
	out      io.Writer
	state    *models.GameState
	caseData *models.CaseData
}

func (t *turn) isFinal(scene *models.SceneNode) bool {
	return t.state.ActiveEncounter == nil && len(engine.VisibleChoices(*scene, t.state)) == 0
}

func (t *turn) beginEncounter(scene *models.SceneNode) error {
	if scene.Encounter == nil || t.state.ActiveEncounter != nil || slices.Contains(t.visited(), scene.ID) {
		return nil
	}
	enc, err := t.s.engine.BeginEncounter(t.state, scene.ID, scene.Encounter.Rounds, scene.Encounter.IsSupernatural)
	if err != nil {
		return errors.Wrap(err, "begin encounter")
	}
	if enc.ReactionCheckPassed != nil && !*enc.ReactionCheckPassed {
		_, _ = fmt.Fprintln(t.out, "Your nerve falters before the thing in the fog.")
	}
	return nil
}

// visited returns the scenes whose encounter already ran: every scene of the history but the current one.
func (t *turn) visited() []string {
	h := t.state.SceneHistory
	if len(h) == 0 {
		return nil
	}
	return h[:len(h)-1]
}

func (t *turn) choices(scene *models.SceneNode) []models.Choice {
	if enc := t.state.ActiveEncounter; enc != nil {
		round, ok := enc.Round()
		if !ok {
			return nil
		}
		var out []models.Choice
		for _, c := range engine.GetEncounterChoices(round, t.state) {
			out = append(out, c.Choice)
		}
		return out
	}
	return engine.VisibleChoices(*scene, t.state)
}

func (t *turn) printScene(scene *models.SceneNode) {
	inv := t.state.Investigator
	_, _ = fmt.Fprintf(t.out, "\n[%s] composure %d vitality %d\n%s\n", scene.ID, inv.Composure, inv.Vitality,
		scene.Narrative)
	if enc := t.state.ActiveEncounter; enc != nil {
		_, _ = fmt.Fprintf(t.out, "Encounter round %d of %d\n", enc.CurrentRound+1, len(enc.Rounds))
	}
	for i, c := range t.choices(scene) {
		check := ""
		if c.IsCheck() {
			check = fmt.Sprintf(" (%s)", c.Faculty)
		}
		_, _ = fmt.Fprintf(t.out, "  %d. %s%s\n", i+1, c.Text, check)
	}
	for i, d := range t.discoveries(scene) {
		_, _ = fmt.Fprintf(t.out, "  clue %d: %s something here\n", i+1, d.Method)
	}
}

func (t *turn) discoveries(scene *models.SceneNode) []models.ClueDiscovery {
	var out []models.ClueDiscovery
	for _, d := range engine.DiscoverableClues(*scene, t.state) {
		if d.Method != models.DiscoveryAutomatic {
			out = append(out, d)
		}
	}
	return out
}

// command runs one line of input and returns the scene to show next.
func (t *turn) command(line string, scene *models.SceneNode) (*models.SceneNode, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return scene, nil
	}
	switch fields[0] {
	case "board":
		t.printBoard()
		return scene, nil
	case "ability":
		ability, err := t.s.progression.UseAbility(t.state, scene)
		if err != nil {
			return nil, err
		}
		_, _ = fmt.Fprintf(t.out, "%s: %s\n", ability.Name, ability.Description)
		return scene, nil
	case "connect":
		return scene, t.connect(fields[1:])
	case "clue":
		return scene, t.discover(fields[1:], scene)
	default:
		return t.choose(fields[0], scene)
	}
}

func (t *turn) choose(arg string, scene *models.SceneNode) (*models.SceneNode, error) {
	choices := t.choices(scene)
	var choice *models.Choice
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(choices) {
		choice = &choices[n-1]
	}
	for i := range choices {
		if choices[i].ID == arg {
			choice = &choices[i]
		}
	}
	if choice == nil {
		return nil, errors.Wrap(engine.ErrChoiceUnavailable, "choose", slog.String("input", arg))
	}

	var (
		result models.ChoiceResult
		err    error
	)
	if t.state.ActiveEncounter != nil {
		_, result, err = t.s.engine.RunEncounterChoice(t.state, choice.ID)
	} else {
		result, err = t.s.engine.ProcessChoice(t.state, *choice)
	}
	if err != nil {
		return nil, err
	}
	if c := result.Check; c != nil {
		_, _ = fmt.Fprintf(t.out, "%s check: rolled %d %+d = %d vs DC %d, %s\n",
			choice.Faculty, c.Roll, c.Modifier, c.Total, c.DC, c.Tier)
	}
	if t.state.ActiveEncounter != nil || result.NextSceneID == "" {
		return scene, nil
	}
	return engine.EnterScene(t.state, t.caseData)
}

func (t *turn) discover(args []string, scene *models.SceneNode) error {
	found := t.discoveries(scene)
	if len(args) != 1 {
		return errors.Wrap(engine.ErrClueNotDiscoverable, "discover")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(found) {
		return errors.Wrap(engine.ErrClueNotDiscoverable, "discover", slog.String("input", args[0]))
	}
	id := found[n-1].ClueID
	if err = engine.DiscoverClue(t.state, *scene, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(t.out, "Found %s: %s\n", t.state.Clues[id].Title, t.state.Clues[id].Description)
	return nil
}

func (t *turn) connect(ids []string) error {
	attempt, err := t.s.engine.ConnectClues(t.state, ids)
	if err != nil {
		return err
	}
	engine.ApplyEffects(t.state, attempt.Effects)
	if attempt.Deduction == nil {
		_, _ = fmt.Fprintf(t.out, "The threads will not join (%s). The clues are contested.\n", attempt.Tier)
		return nil
	}
	_, _ = fmt.Fprintf(t.out, "Deduction %s: %s\n", attempt.Deduction.ID, attempt.Deduction.Description)
	return nil
}

func (t *turn) printBoard() {
	ids := make([]string, 0, len(t.state.Clues))
	for id, c := range t.state.Clues {
		if c.IsRevealed {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		c := t.state.Clues[id]
		_, _ = fmt.Fprintf(t.out, "  %-18s %-10s %s\n", id, c.Status, c.Title)
	}
	for _, d := range t.state.Deductions {
		_, _ = fmt.Fprintf(t.out, "  deduction %s from %s\n", d.ID, strings.Join(d.ClueIDs, ", "))
	}
}

func (t *turn) complete(ctx context.Context) error {
	result, err := t.s.progression.CompleteCase(ctx, t.caseData.Meta.ID, t.state)
	if err != nil {
		return errors.Wrap(err, "complete case")
	}
	_, _ = fmt.Fprintln(t.out, "Case closed.")
	if f := result.FacultyBonusGranted; f != nil {
		_, _ = fmt.Fprintf(t.out, "Your %s improves.\n", *f)
	}
	if v := result.VignetteUnlocked; v != nil {
		_, _ = fmt.Fprintf(t.out, "A new vignette is open to you: %s\n", *v)
	}
	return nil
}

// errorMessage strips the annotations of err down to the rule that was broken.
func errorMessage(err error) string {
	for _, target := range []error{
		engine.ErrChoiceUnavailable, engine.ErrClueNotDiscoverable, engine.ErrClueNotRevealed,
		engine.ErrNotEnoughClues, progression.ErrAbilityUsed,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
