package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	epost "github.com/Quosimadu/epost-api"
	"github.com/Quosimadu/epost-api/internal/config"
	"github.com/Quosimadu/epost-api/internal/logger"
)

const usage = "usage: epostctl <login|sms-code|set-password|send|status|status-batch|status-range> [args]"

// Streams holds the process streams so commands can be tested.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultStreams returns the standard process streams.
func DefaultStreams() Streams {
	return Streams{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// StatusOutput is the JSON form of a letter status.
type StatusOutput struct {
	LetterID string              `json:"letterID"`
	StatusID int                 `json:"statusID"`
	Status   string              `json:"status"`
	Errors   []epost.ErrorRecord `json:"errorList,omitempty"`
}

type app struct {
	cfg    *config.Config
	client *epost.Client
	log    *zap.Logger
	out    io.Writer
}

func run(args []string, streams Streams) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log, streams.Stderr)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	client, err := epost.New(cfg.ClientOptions(log)...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a := &app{cfg: cfg, client: client, log: log, out: streams.Stdout}
	cmd, rest := args[1], args[2:]

	switch cmd {
	case "login":
		return a.login(ctx)
	case "sms-code":
		return a.smsCode(ctx)
	case "set-password":
		if len(rest) != 2 {
			return errors.New("usage: epostctl set-password <new-password> <sms-code>")
		}
		return a.setPassword(ctx, rest[0], rest[1])
	case "send":
		return a.send(ctx, rest)
	case "status":
		if len(rest) != 1 {
			return errors.New("usage: epostctl status <letter-id>")
		}
		return a.status(ctx, epost.LetterID(rest[0]))
	case "status-batch":
		return a.statusBatch(ctx, rest)
	case "status-range":
		return a.statusRange(ctx, rest)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) encode(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) letter(ctx context.Context) (*epost.Letter, error) {
	token, err := a.client.AccessToken(ctx, a.cfg.Credentials())
	if err != nil {
		return nil, err
	}
	return a.client.NewLetter().SetAccessToken(token), nil
}

func (a *app) login(ctx context.Context) error {
	token, err := a.client.AccessToken(ctx, a.cfg.Credentials())
	if err != nil {
		return err
	}
	return a.encode(map[string]string{"token": token.Token()})
}

func (a *app) smsCode(ctx context.Context) error {
	if err := a.client.RequestSMSCode(ctx, a.cfg.Account.VendorID, a.cfg.Account.EKP); err != nil {
		return err
	}
	return a.encode(map[string]bool{"success": true})
}

func (a *app) setPassword(ctx context.Context, newPassword, smsCode string) error {
	if err := a.client.SetPassword(ctx, a.cfg.Account.VendorID, a.cfg.Account.EKP, newPassword, smsCode); err != nil {
		return err
	}
	return a.encode(map[string]bool{"success": true})
}

func (a *app) send(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
	hybrid := fs.Bool("hybrid", false, "print and post the letter")
	subject := fs.String("subject", "", "subject line")
	lines := fs.StringArray("line", nil, "address line, repeat up to 5 times")
	zip := fs.String("zip", "", "zip code")
	city := fs.String("city", "", "city")
	country := fs.String("country", "", "destination country for international letters")
	cover := fs.String("cover", "", "cover letter PDF")
	color := fs.Bool("color", false, "print in color")
	duplex := fs.Bool("duplex", false, "print double-sided")
	coverIncluded := fs.Bool("cover-included", false, "first page of the attachment is the cover letter")
	registered := fs.String("registered", "", "registered mail class, e.g. \"Einschreiben\"")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: epostctl send [flags] <file.pdf>")
	}

	recipient := epost.NewRecipient()
	for i, line := range *lines {
		if err := recipient.SetAddressLine(i, line); err != nil {
			return err
		}
	}
	if err := recipient.SetZipCode(*zip); err != nil {
		return err
	}
	if err := recipient.SetCity(*city); err != nil {
		return err
	}
	if err := recipient.SetCountry(*country); err != nil {
		return err
	}

	letterType := epost.LetterTypeNormal
	if *hybrid {
		letterType = epost.LetterTypeHybrid
	}
	envelope := epost.NewEnvelope(letterType)
	envelope.SetSubject(*subject)
	if err := envelope.AddRecipient(recipient, letterType); err != nil {
		return err
	}

	letter, err := a.letter(ctx)
	if err != nil {
		return err
	}
	letter.SetEnvelope(envelope)
	if err := letter.SetAttachmentFile(fs.Arg(0)); err != nil {
		return err
	}
	if *cover != "" {
		if err := letter.SetCoverLetterFile(*cover); err != nil {
			return err
		}
	}

	if *hybrid {
		options := epost.NewDeliveryOptions()
		if fs.Changed("color") {
			options.SetColor(*color)
		}
		if fs.Changed("duplex") {
			options.SetDuplex(*duplex)
		}
		if fs.Changed("cover-included") {
			options.SetCoverLetter(*coverIncluded)
		}
		if fs.Changed("registered") {
			if err := options.SetRegistered(epost.Registered(*registered)); err != nil {
				return err
			}
		}
		letter.SetDeliveryOptions(options)
	}

	if err := letter.Submit(ctx); err != nil {
		return err
	}

	ids := letter.LetterIDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return a.encode(map[string]any{"letterIDs": out, "test": letter.IsTestEnvironment()})
}

func (a *app) status(ctx context.Context, id epost.LetterID) error {
	letter, err := a.letter(ctx)
	if err != nil {
		return err
	}
	status, err := letter.Status(ctx, id)
	if err != nil {
		return err
	}
	return a.encode(toOutput(*status))
}

func (a *app) statusBatch(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("status-batch", pflag.ContinueOnError)
	onlyIssues := fs.Bool("only-issues", false, "only report letters with errors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: epostctl status-batch [--only-issues] <letter-id>...")
	}

	ids := make([]epost.LetterID, 0, fs.NArg())
	for _, arg := range fs.Args() {
		ids = append(ids, epost.LetterID(arg))
	}

	letter, err := a.letter(ctx)
	if err != nil {
		return err
	}
	statuses, err := letter.Statuses(ctx, ids, *onlyIssues)
	if err != nil {
		return err
	}
	return a.encode(toOutputs(statuses))
}

func (a *app) statusRange(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("status-range", pflag.ContinueOnError)
	onlyIssues := fs.Bool("only-issues", false, "only report letters with errors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: epostctl status-range [--only-issues] <from> <till>")
	}

	from, err := parseTime(fs.Arg(0))
	if err != nil {
		return err
	}
	till, err := parseTime(fs.Arg(1))
	if err != nil {
		return err
	}

	letter, err := a.letter(ctx)
	if err != nil {
		return err
	}
	statuses, err := letter.StatusesByDateRange(ctx, from, till, *onlyIssues)
	if err != nil {
		return err
	}
	return a.encode(toOutputs(statuses))
}

// parseTime accepts RFC 3339, the API's date layout in UTC, or a bare date.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, epost.DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want e.g. 2024-03-01 or %s", s, epost.DateLayout)
}

func toOutput(s epost.LetterStatus) StatusOutput {
	return StatusOutput{
		LetterID: string(s.LetterID),
		StatusID: int(s.StatusID),
		Status:   s.StatusID.String(),
		Errors:   s.Errors,
	}
}

func toOutputs(statuses []epost.LetterStatus) []StatusOutput {
	out := make([]StatusOutput, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, toOutput(s))
	}
	return out
}
