package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tenderdesk/caseforum/internal/app"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/infrastructure/identity"
	"github.com/tenderdesk/caseforum/internal/view"
	"github.com/tenderdesk/caseforum/pkg/logger"
)

var (
	shellMemory bool
	shellYes    bool
	shellToken  string
)

var shellCmd = &cobra.Command{
	Use:   "shell [location]",
	Short: "Drive the forum from a line-oriented client",
	Long: `shell renders pages as JSON lines and reads commands from stdin:

  go <location>                  navigate, e.g. go #/category/post
  register <email> <password> [display name]
  login <email> <password>
  logout
  do <action json> [input json]  perform an action from the current page
  edit <field>                   toggle local editing of summary or details
  draft <field> <text>           set the draft of a field being edited
  grant <uid>                    add an admin out of band
  whoami
  quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		be, err := openBackend(ctx, cfg, shellMemory, log)
		if err != nil {
			return err
		}
		defer be.close(context.Background())

		location := ""
		if len(args) == 1 {
			location = args[0]
		}
		sh := newShell(be, cmd.InOrStdin(), cmd.OutOrStdout(), shellYes, logger.Component(log, "shell"))
		if shellToken != "" {
			if err := sh.identity.Restore(ctx, shellToken); err != nil {
				sh.presenter.Notify(err.Error())
			}
		}
		return sh.run(ctx, location)
	},
}

func init() {
	shellCmd.Flags().BoolVar(&shellMemory, "memory", false, "Keep data in process instead of MongoDB")
	shellCmd.Flags().BoolVarP(&shellYes, "yes", "y", false, "Confirm destructive actions without asking")
	shellCmd.Flags().StringVar(&shellToken, "token", "", "Resume the session of a previously issued token")
}

// jsonPresenter writes pages and notices as JSON lines. Confirmation
// questions read the answer from the shell's input.
type jsonPresenter struct {
	mu      sync.Mutex
	out     *json.Encoder
	answers *bufio.Scanner
	yes     bool
}

func (p *jsonPresenter) Present(page view.Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.out.Encode(map[string]any{"page": page})
}

func (p *jsonPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.out.Encode(map[string]string{"notice": message})
}

func (p *jsonPresenter) Confirm(question string) bool {
	if p.yes {
		return true
	}
	p.mu.Lock()
	_ = p.out.Encode(map[string]string{"confirm": question + " [y/N]"})
	p.mu.Unlock()

	if !p.answers.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.answers.Text()))
	return answer == "y" || answer == "yes"
}

type shell struct {
	app       *app.App
	identity  *identity.Client
	auth      ports.AuthService
	admins    adminGranter
	presenter *jsonPresenter
	in        *bufio.Scanner
	log       zerolog.Logger
}

type adminGranter interface {
	Grant(ctx context.Context, uid string) error
}

func newShell(be *backend, in io.Reader, out io.Writer, yes bool, log zerolog.Logger) *shell {
	scanner := bufio.NewScanner(in)
	presenter := &jsonPresenter{out: json.NewEncoder(out), answers: scanner, yes: yes}
	client := identity.NewClient(be.auth, logger.Component(log, "identity"))
	builder := view.NewBuilder(be.cases, be.comments, be.admins)
	dispatcher := app.NewDispatcher(be.cases, be.comments, be.admins, logger.Component(log, "dispatcher"))

	return &shell{
		app:       app.New(client, be.admins, builder, dispatcher, presenter, log),
		identity:  client,
		auth:      be.auth,
		admins:    be.admins,
		presenter: presenter,
		in:        scanner,
		log:       log,
	}
}

var errQuit = errors.New("quit")

func (s *shell) run(ctx context.Context, location string) error {
	s.app.Start(ctx, location)
	defer s.app.Stop()

	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line == "" || (strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#/")) {
			continue
		}
		if err := s.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			s.log.Debug().Err(err).Str("line", line).Msg("command failed")
		}
	}
	return s.in.Err()
}

func (s *shell) exec(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "quit", "exit":
		return errQuit

	case "go":
		s.app.Navigate(ctx, rest)
		return nil

	case "register":
		fields := strings.SplitN(rest, " ", 3)
		if len(fields) < 2 {
			return s.usage("register <email> <password> [display name]")
		}
		name := ""
		if len(fields) == 3 {
			name = fields[2]
		}
		user, err := s.auth.Register(ctx, name, fields[0], fields[1])
		if err != nil {
			s.presenter.Notify(err.Error())
			return err
		}
		s.presenter.Notify("registered " + user.UID)
		return nil

	case "login":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return s.usage("login <email> <password>")
		}
		_, err := s.app.SignIn(ctx, ports.Credentials{Email: fields[0], Password: fields[1]})
		return err

	case "logout":
		return s.app.SignOut(ctx)

	case "do":
		action, input, err := parseDo(rest)
		if err != nil {
			s.presenter.Notify(err.Error())
			return err
		}
		return s.app.Perform(ctx, action, input)

	case "edit":
		s.app.ToggleEdit(rest)
		return nil

	case "draft":
		field, text, ok := strings.Cut(rest, " ")
		if !ok {
			return s.usage("draft <field> <text>")
		}
		s.app.SetDraft(field, text)
		return nil

	case "grant":
		if rest == "" {
			return s.usage("grant <uid>")
		}
		if err := s.admins.Grant(ctx, rest); err != nil {
			s.presenter.Notify(err.Error())
			return err
		}
		// Re-derive the admin flag for the current user.
		if token := s.identity.Token(); token != "" {
			_ = s.identity.Restore(ctx, token)
		} else {
			s.app.Render(ctx)
		}
		return nil

	case "whoami":
		session := s.app.Session()
		if !session.SignedIn() {
			s.presenter.Notify("anonymous")
			return nil
		}
		role := "user"
		if session.IsAdmin {
			role = "admin"
		}
		s.presenter.Notify(fmt.Sprintf("%s (%s, %s)", session.User.Label(), session.UID(), role))
		return nil
	}

	return s.usage("unknown command " + verb)
}

func (s *shell) usage(msg string) error {
	s.presenter.Notify("usage: " + msg)
	return errors.New(msg)
}

// parseDo reads an action object and an optional input object from one line.
func parseDo(raw string) (view.Action, view.Input, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	var action view.Action
	if err := dec.Decode(&action); err != nil {
		return view.Action{}, nil, fmt.Errorf("invalid action: %w", err)
	}
	if action.Type == "" {
		return view.Action{}, nil, errors.New("invalid action: type is required")
	}

	var input view.Input
	if dec.More() {
		if err := dec.Decode(&input); err != nil {
			return view.Action{}, nil, fmt.Errorf("invalid input: %w", err)
		}
	}
	return action, input, nil
}
