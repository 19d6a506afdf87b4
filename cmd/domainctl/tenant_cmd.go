package main

import (
	"github.com/spf13/cobra"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
)

func newTenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Administer tenants",
	}
	cmd.AddCommand(newTenantCreateCmd())
	cmd.AddCommand(newTenantActionCmd("get", "Show a tenant", func(e *env, cmd *cobra.Command, tenantID id.TenantID) (*models.Tenant, error) {
		return e.module.Service.GetTenant(cmd.Context(), tenantID)
	}))
	cmd.AddCommand(newTenantActionCmd("suspend", "Suspend a tenant and stop serving its domain", func(e *env, cmd *cobra.Command, tenantID id.TenantID) (*models.Tenant, error) {
		return e.module.Service.SuspendTenant(cmd.Context(), tenantID)
	}))
	cmd.AddCommand(newTenantActionCmd("reactivate", "Reactivate a suspended tenant", func(e *env, cmd *cobra.Command, tenantID id.TenantID) (*models.Tenant, error) {
		return e.module.Service.ReactivateTenant(cmd.Context(), tenantID)
	}))
	return cmd
}

func newTenantCreateCmd() *cobra.Command {
	var (
		name  string
		trial bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(e *env) error {
				t, err := e.module.Service.CreateTenant(cmd.Context(), name, trial)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), t)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Tenant name (required, unique)")
	cmd.Flags().BoolVar(&trial, "trial", false, "Start the tenant in trial")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type tenantAction func(e *env, cmd *cobra.Command, tenantID id.TenantID) (*models.Tenant, error)

func newTenantActionCmd(use, short string, action tenantAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tenant-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenantArg(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, func(e *env) error {
				t, err := action(e, cmd, tenantID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), t)
			})
		},
	}
}

func withEnv(cmd *cobra.Command, fn func(*env) error) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}
