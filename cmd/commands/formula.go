package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	engine "github.com/ncobase/screener/validation/expression"
	"github.com/spf13/cobra"
)

// errInvalidFormula makes the command exit non-zero after printing the verdict
var errInvalidFormula = errors.New("formula is invalid")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <expression>",
		Short: "Check a formula for syntax and field errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verdict := engine.ValidateFormula(strings.Join(args, " "))
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := json.Marshal(verdict)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			} else if verdict.Valid {
				fmt.Fprintln(out, "valid")
			} else if verdict.Position != nil {
				fmt.Fprintf(out, "invalid at position %d: %s\n", *verdict.Position, verdict.Error)
			} else {
				fmt.Fprintf(out, "invalid: %s\n", verdict.Error)
			}

			if !verdict.Valid {
				return errInvalidFormula
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the verdict as JSON")
	return cmd
}

// NewNormalizeCommand creates the normalize command
func NewNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <expression>",
		Short: "Print the canonical form of a formula",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if v := engine.ValidateFormula(text); !v.Valid {
				return fmt.Errorf("%w: %s", errInvalidFormula, v.Error)
			}
			canonical, err := engine.NormalizeFormula(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), canonical)
			return nil
		},
	}
}

// NewFieldsCommand creates the fields command
func NewFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields a formula may reference",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := engine.DefaultRegistry()
			out := cmd.OutOrStdout()
			for _, name := range reg.Numeric() {
				fmt.Fprintf(out, "%-18s number\n", name)
			}
			for _, name := range reg.Strings() {
				fmt.Fprintf(out, "%-18s string\n", name)
			}
		},
	}
}
