package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "url <type> [id]",
		Short:   "Prints the URL the adapter builds for a resource",
		Example: "resourcectl url users 7",
		Args:    cobra.RangeArgs(1, 2),
		RunE: withApp(func(_ context.Context, a *app, args []string) error {
			u, err := a.adapter.BuildURL(args[0], args[1:]...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, u)
			return err
		}),
	}
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <type> [id]",
		Short: "Fetches a record, a collection or a filtered collection",
		Example: `resourcectl get users 7
resourcectl get users --query 'filter[name]=ada' --query sort=-created
resourcectl get users --ids 1,2,3`,
		Args: cobra.RangeArgs(1, 2),
	}
	cmd.Flags().StringArrayP(flagQuery, "q", nil, "Query parameter as key=value, repeatable")
	cmd.Flags().StringSlice(flagIDs, nil, "Fetch several records by id in one request")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		queries, _ := cmd.Flags().GetStringArray(flagQuery)
		ids, _ := cmd.Flags().GetStringSlice(flagIDs)
		resourceType := args[0]

		switch {
		case len(args) == 2:
			if len(queries) > 0 || len(ids) > 0 {
				return fmt.Errorf("--%s and --%s cannot be combined with an id", flagQuery, flagIDs)
			}
			return a.print(a.adapter.FindRecord(ctx, resourceType, args[1]))
		case len(ids) > 0:
			return a.print(a.adapter.FindMany(ctx, resourceType, ids))
		case len(queries) > 0:
			params, err := parseQuery(queries)
			if err != nil {
				return err
			}
			return a.print(a.adapter.Query(ctx, resourceType, params))
		default:
			return a.print(a.adapter.FindAll(ctx, resourceType))
		}
	})
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <type> <id>",
		Short:   "Deletes a record",
		Example: "resourcectl delete users 7",
		Args:    cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.print(a.adapter.DeleteRecord(ctx, args[0], args[1]))
		}),
	}
}

func parseQuery(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected key=value", flagQuery, pair)
		}
		params.Add(key, value)
	}
	return params, nil
}
