// simadmin - company administration CLI for the simulator backend
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/tapilabs/leadsim/internal/backend"
	"github.com/tapilabs/leadsim/internal/config"
)

// options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type options struct {
	BackendURL string        `long:"backend" env:"BACKEND_URL" description:"simulator backend base URL"`
	AdminKey   string        `long:"admin-key" env:"ADMIN_API_KEY" description:"admin API key sent as X-Admin-Key"`
	Timeout    time.Duration `long:"timeout" env:"BACKEND_TIMEOUT" default:"30s" description:"request timeout"`

	List   listCmd   `command:"list" description:"List registered companies"`
	Create createCmd `command:"create" description:"Register a new company"`
}

var opts options

func (o *options) client() *backend.Client {
	baseURL := o.BackendURL
	if baseURL == "" {
		baseURL = config.DefaultBackendURL
	}
	adminKey := o.AdminKey
	if adminKey == "" {
		adminKey = "dev-admin-key"
	}
	return backend.New(backend.Options{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		Timeout:  o.Timeout,
	})
}

type listCmd struct{}

// Execute lists all registered companies in a table.
func (c *listCmd) Execute(_ []string) error {
	companies, err := opts.client().ListCompanies(context.Background())
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies registered.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tDESCRIPTION")
	for _, company := range companies {
		active := "no"
		if company.IsActive {
			active = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", company.ID, company.Name, active, company.Description)
	}
	return tw.Flush()
}

type createCmd struct {
	ID          string `long:"id" required:"true" description:"company id, e.g. HDHEAVY"`
	Name        string `long:"name" required:"true" description:"company display name"`
	Description string `long:"description" description:"optional note"`
}

// Execute registers a new company.
func (c *createCmd) Execute(_ []string) error {
	id := strings.TrimSpace(c.ID)
	name := strings.TrimSpace(c.Name)
	if id == "" || name == "" {
		return fmt.Errorf("company id and name are required")
	}

	err := opts.client().CreateCompany(context.Background(), backend.CompanyRequest{
		ID:          id,
		Name:        name,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	fmt.Printf("Company %s created.\n", id)
	return nil
}

func main() {
	_ = godotenv.Load()

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
