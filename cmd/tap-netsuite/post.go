package main

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/netsuite"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

func newPostCommand(a *app) *cobra.Command {
	var stream, file string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Upsert records into a writable stream by external id",
		Long: `Upsert records read from --file (a JSON object or an array of objects)
into a writable stream. Posting the same external id again updates the
existing record. The stored records are printed as JSON lines.

Example:
  tap-netsuite post --config netsuite.yaml --stream JournalEntry --file entries.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			defer a.close()

			recs, err := readRecords(file)
			if err != nil {
				return err
			}
			return a.post(cmd.Context(), stream, recs, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&stream, "stream", "JournalEntry", "Writable stream to post to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the records; - reads stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) post(ctx context.Context, stream string, recs []suitetalk.Record, out io.Writer) error {
	collector := metrics.Default()
	conn, err := netsuite.Open(ctx, a.opener(collector), credentials(a.cfg), a.cfg.Caching,
		netsuite.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer conn.Close()

	desc, err := conn.Descriptor(stream)
	if err != nil {
		return err
	}
	if !desc.Writable {
		return errors.New(errors.ErrorTypeValidation, "stream does not support write-back").WithDetail("stream", stream)
	}

	inst := netsuite.Instrument(conn, collector)
	enc := json.NewEncoder(out)
	for i, rec := range recs {
		stored, err := inst.Post(ctx, stream, rec)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "post failed").WithDetail("index", i)
		}
		a.log.Info("record posted",
			zap.String("stream", stream),
			zap.String("external_id", stored.Field("externalId")),
			zap.String("internal_id", stored.InternalID()))
		if err := enc.Encode(stored); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write result")
		}
	}
	return nil
}

// readRecords accepts one JSON object or an array of them.
func readRecords(path string) ([]suitetalk.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read records").WithDetail("path", path)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var recs []suitetalk.Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse records")
		}
		return recs, nil
	}
	var rec suitetalk.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse record")
	}
	return []suitetalk.Record{rec}, nil
}
