package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/curp"
	"github.com/sanjacob/kangaroo/errors"
	"github.com/sanjacob/kangaroo/logger"
)

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate CURP \"FULL NAME\"",
	Short: "Check a CURP against a full name",
	Long: `Check whether a CURP is consistent with a declared full name.

The name-derived positions of the CURP are recomputed from every way
the full name can be split into given names and surnames, including
the censored forms RENAPO substitutes for inconvenient words. On a
match the name decomposition is printed.

Examples:
  kangaroo validate MAGE981117MMNCRS05 "ESTEFANIA DE LOS DOLORES MACIAS GARCIA"
  kangaroo validate --json TAXA990915MNEMXM06 "AMBER NICOLE TAMAYO"`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	code, fullName := args[0], args[1]

	parts, ok, err := curp.Validate(code, fullName)
	if err != nil {
		if errors.Is(err, curp.ErrInvalidFormat) {
			if logger.JSONOutput {
				return printJSON(map[string]interface{}{
					"curp":  code,
					"valid": false,
					"error": "invalid format",
				})
			}
			pterm.Error.Printf("%s is not a well-formed CURP\n", code)
			os.Exit(1)
		}
		return err
	}

	if logger.JSONOutput {
		out := map[string]interface{}{
			"curp":  code,
			"valid": ok,
		}
		if ok {
			out["identidad"] = parts
		}
		return printJSON(out)
	}

	if !ok {
		pterm.Error.Printf("%s does not match %q\n", code, fullName)
		os.Exit(1)
	}

	pterm.Success.Printf("%s matches %q\n", code, fullName)
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Nombre", parts.Nombre},
		{"Apellido", parts.Apellido},
		{"Apellido materno", parts.ApellidoM},
	}).Render()
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	fmt.Println(string(data))
	return nil
}
