package main

import (
	"github.com/spf13/cobra"
)

type resolveOutput struct {
	Host     string `json:"host"`
	TenantID string `json:"tenant_id"`
}

func newDomainCmds() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "register <tenant-id> <domain>",
			Short: "Attach a custom domain to a tenant and print its DNS records",
			Args:  cobra.ExactArgs(2),
			RunE: tenantRunE(func(cmd *cobra.Command, e *env, args []string) (any, error) {
				tenantID, _ := parseTenantArg(args[0])
				return e.module.Service.RegisterDomain(cmd.Context(), tenantID, args[1])
			}),
		},
		{
			Use:   "remove <tenant-id>",
			Short: "Detach the tenant's custom domain",
			Args:  cobra.ExactArgs(1),
			RunE: tenantRunE(func(cmd *cobra.Command, e *env, args []string) (any, error) {
				tenantID, _ := parseTenantArg(args[0])
				if err := e.module.Service.RemoveDomain(cmd.Context(), tenantID); err != nil {
					return nil, err
				}
				return e.module.Service.GetDomainStatus(cmd.Context(), tenantID)
			}),
		},
		{
			Use:   "advance <tenant-id>",
			Short: "Check the hosting provider once and activate the domain when ready",
			Args:  cobra.ExactArgs(1),
			RunE: tenantRunE(func(cmd *cobra.Command, e *env, args []string) (any, error) {
				tenantID, _ := parseTenantArg(args[0])
				return e.module.Service.AdvanceVerification(cmd.Context(), tenantID)
			}),
		},
		{
			Use:   "status <tenant-id>",
			Short: "Show the tenant's custom domain status",
			Args:  cobra.ExactArgs(1),
			RunE: tenantRunE(func(cmd *cobra.Command, e *env, args []string) (any, error) {
				tenantID, _ := parseTenantArg(args[0])
				return e.module.Service.GetDomainStatus(cmd.Context(), tenantID)
			}),
		},
		{
			Use:   "activity <tenant-id>",
			Short: "List recent domain lifecycle events",
			Args:  cobra.ExactArgs(1),
			RunE: tenantRunE(func(cmd *cobra.Command, e *env, args []string) (any, error) {
				tenantID, _ := parseTenantArg(args[0])
				return e.module.Service.ListActivity(cmd.Context(), tenantID)
			}),
		},
		{
			Use:   "resolve <host>",
			Short: "Resolve a request host to its tenant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, func(e *env) error {
					tenantID, err := e.module.Service.ResolveTenant(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), resolveOutput{Host: args[0], TenantID: tenantID.String()})
				})
			},
		},
		{
			Use:   "stats",
			Short: "Count custom domains by status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, func(e *env) error {
					stats, err := e.module.Service.Stats(cmd.Context())
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), stats)
				})
			},
		},
		{
			Use:   "health",
			Short: "Report stale verifications and hosting provider reachability",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, func(e *env) error {
					report, err := e.module.Service.Health(cmd.Context())
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), report)
				})
			},
		},
	}
}

// tenantRunE validates the leading tenant id argument before any connection
// is opened, then prints fn's result.
func tenantRunE(fn func(cmd *cobra.Command, e *env, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := parseTenantArg(args[0]); err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			out, err := fn(cmd, e, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		})
	}
}
