package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

const locationKeyPrefix = "location:"

type locationRecord struct {
	Key      string
	Location model.ResolvedLocation
}

type listLocationsOptions struct {
	Limit int
}

type clearLocationOptions struct {
	Key string
	Yes bool
}

func runListLocations(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-locations", flag.ContinueOnError)
	opts := listLocationsOptions{}
	fs.IntVar(&opts.Limit, "limit", 100, "maximum number of records to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	records, err := scanLocations(ctx, client, opts.Limit)
	if err != nil {
		return err
	}

	return printLocations(os.Stdout, records)
}

func scanLocations(ctx context.Context, client redis.UniversalClient, limit int) ([]locationRecord, error) {
	var records []locationRecord

	iter := client.Scan(ctx, 0, locationKeyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		if limit > 0 && len(records) >= limit {
			break
		}

		data, err := client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}

		var loc model.ResolvedLocation
		if err := json.Unmarshal([]byte(data), &loc); err != nil {
			continue
		}
		records = append(records, locationRecord{
			Key:      strings.TrimPrefix(iter.Val(), locationKeyPrefix),
			Location: loc,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan locations: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

func printLocations(w io.Writer, records []locationRecord) error {
	if len(records) == 0 {
		return writeln(w, "no location records")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "CLIENT KEY\tCITY\tSOURCE\tCOORDINATES"); err != nil {
		return err
	}
	for _, r := range records {
		coords := "-"
		if r.Location.HasCoordinates() {
			coords = fmt.Sprintf("%.4f,%.4f", *r.Location.Latitude, *r.Location.Longitude)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n",
			r.Key, r.Location.City, r.Location.Source, coords); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runClearLocation(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-location", flag.ContinueOnError)
	opts := clearLocationOptions{}
	fs.StringVar(&opts.Key, "key", "", "client key of the location record to delete")
	fs.BoolVar(&opts.Yes, "yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.Key == "" {
		return fmt.Errorf("-key is required")
	}

	if !opts.Yes {
		if err := confirm(fmt.Sprintf("delete location record for %q?", opts.Key)); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	deleted, err := client.Del(ctx, locationKeyPrefix+opts.Key).Result()
	if err != nil {
		return fmt.Errorf("delete location record: %w", err)
	}

	cmdCtx.Logger.Info("clear location complete", "key", opts.Key, "deleted", deleted)
	return nil
}

func runPing(cmdCtx *commandContext, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("ping takes no arguments")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 10*time.Second)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return writeln(os.Stdout, "redis: ok")
}
