package config

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/logging"
)

// Prompter asks the operator for missing values
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
	Warn(text string)
}

// SecretPrompter is implemented by prompters that can read without echo
type SecretPrompter interface {
	PromptSecret(ctx context.Context, label string) (string, error)
}

// Bootstrap prompts for every required field of fn that is empty in s,
// re-asking until the value is valid, then saves s to path. It returns
// the keys that were filled in; nothing is saved when none were missing.
func Bootstrap(ctx context.Context, s *Settings, fn Function, path string, p Prompter) ([]string, error) {
	missing := s.MissingFields(fn)
	if len(missing) == 0 {
		return nil, nil
	}

	keys := make([]string, len(missing))
	for i, f := range missing {
		keys[i] = f.Key
	}
	p.Warn(fmt.Sprintf("config.yaml is missing: %s", strings.Join(keys, ", ")))

	for _, f := range missing {
		value, err := promptField(ctx, f, p)
		if err != nil {
			return nil, err
		}
		f.Set(s, value)
	}

	if err := s.Save(path); err != nil {
		return nil, err
	}
	logging.Info("Settings saved", zap.String("path", path), zap.Strings("keys", keys))
	return keys, nil
}

func promptField(ctx context.Context, f Field, p Prompter) (string, error) {
	label := fmt.Sprintf("Please enter %s", f.Key)
	for {
		var (
			value string
			err   error
		)
		if sp, ok := p.(SecretPrompter); ok && f.Secret {
			value, err = sp.PromptSecret(ctx, label)
		} else {
			value, err = p.Prompt(ctx, label)
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", f.Key, err)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			p.Warn("Do not enter an empty value")
			continue
		}
		if err := ValidateField(f, value); err != nil {
			p.Warn(fmt.Sprintf("%s %s", f.Key, err))
			continue
		}
		return value, nil
	}
}
