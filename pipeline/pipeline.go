// Package pipeline wires the generation stages together: sealed type
// registry, validation, ID allocation, layout resolution and finally the
// emission backends. Each run takes fresh inputs and produces a fresh
// result; there is no shared mutable state between runs.
package pipeline

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/petitechose-audio/protocol-codegen/allocate"
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/gen"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
	"github.com/petitechose-audio/protocol-codegen/utils"
	"github.com/petitechose-audio/protocol-codegen/validate"
)

// Result is everything one generation run computed. It is the sole
// contract handed to the emission backends.
type Result struct {
	RunID       string
	Registry    *schema.Registry
	Messages    []*schema.Message
	Diagnostics []validate.Diagnostic
	Allocation  allocate.Allocation
	Layouts     map[string]*layout.Entry
}

// Run validates, allocates and resolves the message set against the
// configuration. A non-empty diagnostic list stops the run after
// validation with ErrValidationFailed; the diagnostics are on the Result
// so callers can report all of them. Allocation and layout failures abort
// immediately.
func Run(cfg *config.Config, messages []*schema.Message, logger zerolog.Logger) (*Result, error) {
	res := &Result{RunID: utils.NewRunID()}
	log := logger.With().Str("component", "pipeline").Str("run_id", res.RunID).Logger()

	// Config errors are fatal before any message is touched.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().Msg("loading type registry")
	res.Registry = schema.NewBuiltinRegistry()
	log.Info().Int("types", res.Registry.Len()).Msg("type registry sealed")

	res.Messages = messages
	log.Info().Int("messages", len(messages)).Msg("validating messages")
	res.Diagnostics = validate.New(res.Registry, cfg.Frame, cfg.Limits).Validate(messages)
	if len(res.Diagnostics) > 0 {
		log.Error().Int("diagnostics", len(res.Diagnostics)).Msg("validation failed")
		return res, errors.Newf(ErrValidationFailed, "validation failed with %d diagnostic(s)", len(res.Diagnostics))
	}

	log.Info().Msg("allocating message IDs")
	alloc, err := allocate.Allocate(messages)
	if err != nil {
		return res, err
	}
	res.Allocation = alloc

	log.Info().Msg("resolving wire layouts")
	res.Layouts = make(map[string]*layout.Entry, len(messages))
	for _, m := range messages {
		entry, err := layout.Resolve(m, res.Registry, cfg.Frame, cfg.Limits)
		if err != nil {
			return res, err
		}
		res.Layouts[m.Name()] = entry
	}

	log.Info().Msg("generation run complete")
	return res, nil
}

// Emit runs the given backends over a completed result and writes their
// files under each target's configured base path, joined onto outputBase.
// It returns the paths written, relative to outputBase.
func Emit(res *Result, cfg *config.Config, outputBase string, emitters []gen.Emitter, logger zerolog.Logger) ([]string, error) {
	log := logger.With().Str("component", "pipeline").Str("run_id", res.RunID).Logger()

	ctx := &gen.Context{
		Messages:   res.Messages,
		Allocation: res.Allocation,
		Layouts:    res.Layouts,
		Config:     cfg,
		Registry:   res.Registry,
	}

	var written []string
	for _, e := range emitters {
		base := targetBase(cfg, e.Target())
		log.Info().Str("target", e.Target()).Str("base", base).Msg("emitting code")

		files, err := e.Emit(ctx)
		if err != nil {
			return written, errors.Wrapf(ErrEmitFailed, err, "target %s", e.Target())
		}
		if err := gen.WriteFiles(filepath.Join(outputBase, base), files); err != nil {
			return written, errors.Wrapf(ErrEmitFailed, err, "target %s", e.Target())
		}
		for _, f := range files {
			written = append(written, filepath.Join(base, f.Path))
		}
	}
	return written, nil
}

func targetBase(cfg *config.Config, target string) string {
	switch target {
	case "cpp":
		return cfg.Output.Cpp.BasePath
	case "java":
		return cfg.Output.Java.BasePath
	}
	return target
}
