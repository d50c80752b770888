package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/systmms/botcfg/pkg/botfile"
)

// serviceSummary is the list row shown for one connected service.
type serviceSummary struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

type botSummary struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Protected   bool             `json:"protected" yaml:"protected"`
	Services    []serviceSummary `json:"services" yaml:"services"`
}

// NewListCommand creates the list command.
func NewListCommand(opts *Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the services connected to a bot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, _, err := opts.load()
			if err != nil {
				return err
			}

			summary := summarize(config)
			out := cmd.OutOrStdout()

			switch output {
			case "table":
				w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
				fmt.Fprintf(w, "ID\tTYPE\tNAME\n")
				for _, svc := range summary.Services {
					fmt.Fprintf(w, "%s\t%s\t%s\n", svc.ID, svc.Type, svc.Name)
				}
				return w.Flush()
			case "json":
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			case "yaml":
				data, err := yaml.Marshal(summary)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func summarize(config *botfile.Configuration) botSummary {
	summary := botSummary{
		Name:        config.Name,
		Description: config.Description,
		Protected:   config.SecretEstablished(),
		Services:    []serviceSummary{},
	}
	for _, svc := range config.Services {
		summary.Services = append(summary.Services, serviceSummary{
			ID:   svc.Common().ID,
			Type: string(svc.Common().Type),
			Name: svc.Common().Name,
		})
	}
	return summary
}
