package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// NewCacheCmd creates the cache command group.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the shared result cache",
	}
	cmd.AddCommand(newCachePurgeCmd())
	return cmd
}

type purgeResult struct {
	Prefix  string `json:"prefix"`
	Deleted int64  `json:"deleted"`
}

func (r purgeResult) String() string {
	return fmt.Sprintf("deleted %d cached responses under %q\n", r.Deleted, r.Prefix)
}

func newCachePurgeCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached detection responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cc := cliCtx.Config.Cache
			if !cc.Enabled {
				return errors.New(errors.ErrCodeValidation, "result cache is not configured").
					WithDetail("set cache.enabled and cache.redis.addr")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			rc := cc.Redis
			client, err := redis.NewClient(&rc, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer client.Close()
			if client.IsCluster() {
				return errors.New(errors.ErrCodeNotImplemented, "cache purge scans a single node").
					WithDetail("purge each cluster node in standalone mode")
			}

			cache := redis.NewCache(client, cliCtx.Logger, redis.WithPrefix(cc.Prefix))
			n, err := cache.DeleteByPrefix(ctx, prefix)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeCacheError, "cache purge failed")
			}
			cliCtx.Logger.Info("cache purged", logging.String("prefix", cc.Prefix+prefix), logging.Int64("deleted", n))
			return PrintResult(cmd, cliCtx.OutputFormat, purgeResult{Prefix: cc.Prefix + prefix, Deleted: n})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", analysis.ResponseKeyPrefix, "key prefix below the configured cache prefix")
	return cmd
}

//Personal.AI order the ending
