package commands

import (
	"encoding/json"
	"strings"

	"github.com/erraggy/openapix/asset"
	"github.com/spf13/cobra"
)

// newS3Store is replaced in tests.
var newS3Store = func(cmd *cobra.Command, cfg asset.S3Config) (asset.Store, error) {
	return asset.NewS3Store(cmd.Context(), cfg)
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var (
		id  string
		dir string
		s3  asset.S3Config
	)
	cmd := &cobra.Command{
		Use:   "upload <spec|-> --id <name> (--dir <dir> | --bucket <bucket>)",
		Short: "Store the document as a content-addressed asset",
		Long: "Serialize the document and store it under a name derived from --id and the SHA-256 of its content, " +
			"either in a local directory (--dir) or in an S3 bucket (--bucket). Prints the asset description as JSON.\n\n" +
			"S3 credentials come from the standard AWS configuration chain (environment, shared config, instance role). " +
			"--endpoint targets S3-compatible stores such as MinIO or LocalStack.",
		Example: strings.TrimSpace(`  openapix upload openapi.yaml --id petstore --dir cdk.out/assets
  openapix upload openapi.yaml --id petstore --bucket my-assets --prefix openapi/ -f json
  openapix upload openapi.yaml --id petstore --bucket test --endpoint http://localhost:9000`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return newUsageError("upload requires --id\n\n" + cmd.UsageString())
			}
			if (dir == "") == (s3.Bucket == "") {
				return newUsageError("upload requires exactly one of --dir or --bucket\n\n" + cmd.UsageString())
			}

			var (
				store asset.Store
				err   error
			)
			if dir != "" {
				store = asset.NewFileStore(dir)
			} else {
				store, err = newS3Store(cmd, s3)
				if err != nil {
					return err
				}
			}

			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := s.ToAsset(cmd.Context(), store, id)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(a, "", "  ")
			if err != nil {
				return err
			}
			return opts.emit(cmd, append(data, '\n'))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "Asset identifier (letters, digits, '.', '_' or '-')")
	flags.StringVar(&dir, "dir", "", "Local directory to store the asset in")
	flags.StringVar(&s3.Bucket, "bucket", "", "S3 bucket to upload the asset to")
	flags.StringVar(&s3.Prefix, "prefix", "", "S3 key prefix")
	flags.StringVar(&s3.Region, "region", "", "AWS region (default "+asset.DefaultRegion+")")
	flags.StringVar(&s3.Endpoint, "endpoint", "", "Custom S3 endpoint URL; enables path-style addressing")
	return cmd
}
