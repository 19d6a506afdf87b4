package main

import (
	"errors"

	"github.com/spf13/cobra"

	"domainflow/internal/platform/kafka"
)

func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage Kafka topics",
	}
	cmd.AddCommand(newTopicsEnsureCmd())
	return cmd
}

func newTopicsEnsureCmd() *cobra.Command {
	var (
		partitions  int32
		replication int16
	)
	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create the email-domain recheck topic when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			producer, err := kafka.NewProducer(cfg.Kafka)
			if err != nil {
				return err
			}
			if producer == nil {
				return errors.New("KAFKA_BROKERS is required")
			}
			defer producer.Close()
			if err := kafka.EnsureTopic(cmd.Context(), producer.Client(), cfg.Kafka.EmailTopic, partitions, replication); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"topic": cfg.Kafka.EmailTopic})
		},
	}
	cmd.Flags().Int32Var(&partitions, "partitions", 3, "Partition count")
	cmd.Flags().Int16Var(&replication, "replication", 1, "Replication factor")
	return cmd
}
