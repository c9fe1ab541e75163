package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
)

func newListCmd(a *app) *cobra.Command {
	var format string
	var tags []string

	cmd := &cobra.Command{
		Use:   "list [files|packages]",
		Short: "List annotated actors",
		Long: `List every //actor:gen type with its message, state and argument types.

Examples:
  actorgen list ./...
  actorgen list --format json ./... | jq '.[].name'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd.Context(), &genFlags{shape: string(gen.ShapeNative), tags: tags}, args)
			if err != nil {
				return err
			}
			if err := reportDiagnostics(cmd.ErrOrStderr(), report); err != nil {
				return err
			}

			actors := report.Actors()
			if actors == nil {
				actors = []gen.ActorInfo{}
			}
			for i := range actors {
				actors[i].File = relPath(a.dir, actors[i].File)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(actors, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal actors as json")
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(actors)
				if err != nil {
					return errors.Wrap(err, "failed to marshal actors as yaml")
				}
				fmt.Fprint(out, string(data))
			case "text", "":
				if len(actors) == 0 {
					fmt.Fprintln(out, "No actors found")
					return nil
				}
				table, err := actorTable(actors)
				if err != nil {
					return err
				}
				fmt.Fprint(out, table)
			default:
				return errors.WithHint(
					errors.Newf("unknown format %q", format),
					"valid formats are text, json and yaml")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Extra build tags for package loading")
	return cmd
}

func actorTable(actors []gen.ActorInfo) (string, error) {
	data := pterm.TableData{{"ACTOR", "MSG", "STATE", "ARGS", "PRESTART", "HANDLE", "LOCATION"}}
	for _, act := range actors {
		data = append(data, []string{
			act.Name,
			act.Msg,
			act.State,
			act.Args,
			orDash(act.PreStart),
			orDash(act.Handle),
			act.File + ":" + strconv.Itoa(act.Line),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "failed to render actor table")
	}
	return table + "\n", nil
}

// orDash shows hand-written methods as "-"
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
