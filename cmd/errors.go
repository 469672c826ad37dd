package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/brainmaxx/internal/questiongen"
)

// describeGenerationError turns a generation failure into a hint the
// learner can act on.
func describeGenerationError(err error) string {
	var cfgErr *questiongen.ConfigurationError
	var netErr *questiongen.NetworkError
	var parseErr *questiongen.ParsingError

	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("%s. Run `brainmaxx config init` and add your API key.", cfgErr.Reason)
	case errors.As(err, &netErr):
		if netErr.Status != 0 {
			return fmt.Sprintf("the AI service returned status %d. Try again later.", netErr.Status)
		}
		return "the AI service could not be reached. Check your connection."
	case errors.As(err, &parseErr):
		return "the AI reply was not a usable question. Try again."
	default:
		return err.Error()
	}
}
