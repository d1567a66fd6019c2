package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/client"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/spf13/cobra"
)

var (
	flagBaseURL  string
	flagEmail    string
	flagPassword string
)

var smokeCmd = &cobra.Command{
	Use:         "smoke",
	Short:       "Run an end-to-end scenario against a running server",
	Annotations: map[string]string{"config": "skip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagBaseURL)
		return runSmoke(cmd.Context(), c, flagEmail, flagPassword, cmd.OutOrStdout())
	},
}

func init() {
	smokeCmd.Flags().StringVar(&flagBaseURL, "base-url", "http://localhost:3001", "API base URL")
	smokeCmd.Flags().StringVar(&flagEmail, "email", db.DefaultAdminEmail, "login email")
	smokeCmd.Flags().StringVar(&flagPassword, "password", db.DefaultAdminPassword, "login password")
}

// runSmoke logs in, creates a company and a call, checks the call is listed
// for the company, then removes both.
func runSmoke(ctx context.Context, c *client.Client, email, password string, out io.Writer) error {
	step := func(format string, args ...any) { fmt.Fprintf(out, "ok  "+format+"\n", args...) }

	res, err := c.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	step("login as %s (id %d)", res.User.Email, res.User.ID)

	if _, err := c.Verify(ctx); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	step("token verified")

	company, err := c.CreateCompany(ctx, api.CompanyInput{Name: "Acme"})
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	if company.Status != api.CompanyProspect {
		return fmt.Errorf("company status %q, want %q", company.Status, api.CompanyProspect)
	}
	step("company %d created (%s)", company.ID, company.Status)

	call, err := c.CreateCall(ctx, api.CallInput{
		CompanyID:         api.IntOf(int64(company.ID)),
		ScheduledDateTime: api.NewDateTime(time.Now().Add(24 * time.Hour)),
	})
	if err != nil {
		return fmt.Errorf("create call: %w", err)
	}
	if call.Status != api.CallScheduled {
		return fmt.Errorf("call status %q, want %q", call.Status, api.CallScheduled)
	}
	step("call %d created (%s)", call.ID, call.Status)

	calls, err := c.CallsByCompany(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("list calls: %w", err)
	}
	found := false
	for _, cl := range calls {
		found = found || cl.ID == call.ID
	}
	if !found {
		return fmt.Errorf("call %d not listed for company %d", call.ID, company.ID)
	}
	step("call listed for company")

	if err := c.DeleteCall(ctx, call.ID); err != nil {
		return fmt.Errorf("cleanup call: %w", err)
	}
	if err := c.DeleteCompany(ctx, company.ID); err != nil {
		return fmt.Errorf("cleanup company: %w", err)
	}
	step("cleanup done")
	return nil
}
