package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-study/internal/ai"
	"github.com/thywilljoshua/pdf-study/internal/assistant"
	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/export"
	"github.com/thywilljoshua/pdf-study/internal/logger"
	"github.com/thywilljoshua/pdf-study/internal/pdf"
	"github.com/thywilljoshua/pdf-study/internal/text"
)

// app is what every subcommand needs once the root flags are applied.
type app struct {
	configPath string
	provider   string
	logLevel   string
	plainText  bool
	clean      bool
	jsonOut    bool

	cfg       *config.Config
	log       logger.Logger
	extractor *pdf.Extractor
	asst      *assistant.Assistant
}

// setup loads configuration, applies flag overrides and builds the
// generator. A provider without a key degrades to local analysis.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.provider != "" {
		cfg.Remote.Provider = a.provider
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("clean") {
		cfg.PDF.Clean = a.clean
	}
	cfg.Resolve()

	keyErr := cfg.Validate()
	if errors.Is(keyErr, config.ErrMissingAPIKey) {
		cfg.Remote.Provider = config.ProviderOff
	} else if keyErr != nil {
		return keyErr
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	if keyErr != nil {
		log.Warn("%v, using local analysis only", keyErr)
	}

	gen, err := ai.New(cmd.Context(), cfg.Remote, log)
	if err != nil {
		return fmt.Errorf("init %s client: %w", cfg.Remote.Provider, err)
	}
	log.Debug("provider=%s model=%s", cfg.Remote.Provider, cfg.Remote.Model)

	a.cfg = cfg
	a.log = log
	a.extractor = pdf.NewExtractor(pdf.OptionsFrom(cfg.PDF), log)
	a.asst = assistant.New(gen, log)
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// load reads the document at path. With --text the file is taken as plain
// text and carries no metadata.
func (a *app) load(ctx context.Context, path string) (*pdf.Document, error) {
	if !a.plainText {
		doc, err := a.extractor.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		a.log.Info("extracted %d characters from %d pages of %s", text.Len(doc.Text), doc.Processed, filepath.Base(path))
		return doc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := string(data)
	if a.cfg.PDF.Clean {
		s = text.CleanParagraphs(s)
	}
	return &pdf.Document{
		Text: strings.TrimSpace(s),
		Metadata: pdf.Metadata{
			Title: pdf.Unknown, Author: pdf.Unknown, Subject: pdf.Unknown,
			Creator: pdf.Unknown, Producer: pdf.Unknown, CreationDate: pdf.Unknown,
		},
	}, nil
}

// emit writes v as JSON with --json, otherwise the plain rendering s.
func (a *app) emit(w io.Writer, v any, s string) error {
	if a.jsonOut {
		b, err := export.MarshalJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

// result prints a text result, noting on stderr when it is a local fallback.
func (a *app) result(cmd *cobra.Command, r assistant.Result) error {
	if r.Source == assistant.Fallback && !a.jsonOut {
		fmt.Fprintln(cmd.ErrOrStderr(), "(local analysis)")
	}
	return a.emit(cmd.OutOrStdout(), r, r.Text)
}

// save writes data to dir/name and reports the path.
func (a *app) save(cmd *cobra.Command, dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := export.Write(path, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
	return nil
}
