package pipeline

import (
	reporterrors "aht-report/errors"
	"aht-report/models"
	"aht-report/normalizer"
	"errors"
	"fmt"
	"strings"
)

// Describe turns a run error into the message shown to the user. Schema
// errors list what is missing, the headers that were found, and header
// names that would be accepted.
func Describe(err error) string {
	var (
		unreadable *reporterrors.UnreadableFileError
		missing    *reporterrors.MissingColumnError
		joinKey    *reporterrors.JoinKeyError
	)

	switch {
	case errors.As(err, &joinKey):
		fields := joinKey.Missing
		if len(fields) == 0 {
			fields = []string{joinKey.Key}
		}
		return fmt.Sprintf("%s has no agent identifier column to link it with the HC file.\n", joinKey.File) +
			schemaHelp(fields, joinKey.Found, normalizer.InteractionMapping())

	case errors.As(err, &missing):
		return fmt.Sprintf("%s is missing required columns: %s\n", missing.File, strings.Join(missing.Missing, ", ")) +
			schemaHelp(missing.Missing, missing.Found, normalizer.RosterMapping(), normalizer.InteractionMapping())

	case errors.As(err, &unreadable):
		return fmt.Sprintf("Could not read %s: %v\nUpload an .xlsx or .csv file.", unreadable.File, unreadable.Err)

	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

// schemaHelp lists the headers found and, for every missing field, the
// header names that would be accepted. Mappings are searched in order.
func schemaHelp(fields, found []string, mappings ...normalizer.Mapping) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Columns found: %s\n", strings.Join(found, ", ")))
	sb.WriteString("Expected template:")
	for _, f := range fields {
		var accepted []string
		for _, m := range mappings {
			if accepted = acceptedHeaders(m, models.Field(f)); len(accepted) > 0 {
				break
			}
		}
		sb.WriteString(fmt.Sprintf("\n  %s: %s", f, strings.Join(accepted, ", ")))
	}
	return sb.String()
}

func acceptedHeaders(m normalizer.Mapping, field models.Field) []string {
	for _, spec := range m {
		if spec.Field == field {
			return append([]string{string(field)}, spec.Aliases...)
		}
	}
	return nil
}
