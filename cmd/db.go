package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hmmgo/hmmgo/blobstore"
	miniostore "github.com/hmmgo/hmmgo/blobstore/minio"
	"github.com/hmmgo/hmmgo/fasta"
	"github.com/hmmgo/hmmgo/hmmfile"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/resource"
	"github.com/hmmgo/hmmgo/seq"
)

const (
	s3EndpointFlag = "s3-endpoint"
	s3InsecureFlag = "s3-insecure"
	dbCacheFlag    = "db-cache"
	memLimitFlag   = "mem-limit"
	ioLimitFlag    = "io-limit"
)

func registerDatabaseFlags(fs *pflag.FlagSet) {
	fs.String(s3EndpointFlag, "", "endpoint for s3:// database paths (default $MINIO_ENDPOINT)")
	fs.Bool(s3InsecureFlag, false, "use plain HTTP for s3:// database paths")
	fs.String(dbCacheFlag, "", "cache remote databases in this directory")
	fs.Int64(memLimitFlag, 0, "max bytes of fetched database data held at once (0 = unlimited)")
	fs.Int64(ioLimitFlag, 0, "max database fetch throughput in bytes per second (0 = unlimited)")
}

// databases resolves database arguments for one command invocation. Local
// paths open directly unless fetch limits are set; s3://bucket/key paths
// open through a MinIO-backed store, optionally cached on disk. One
// resource controller is shared by every open of the invocation.
type databases struct {
	ctx      context.Context
	rc       *resource.Controller
	endpoint string
	insecure bool
	cacheDir string
}

func newDatabases(cmd *cobra.Command) (*databases, error) {
	memLimit, err := cmd.Flags().GetInt64(memLimitFlag)
	if err != nil {
		return nil, err
	}
	ioLimit, err := cmd.Flags().GetInt64(ioLimitFlag)
	if err != nil {
		return nil, err
	}
	endpoint, err := cmd.Flags().GetString(s3EndpointFlag)
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = os.Getenv("MINIO_ENDPOINT")
	}
	insecure, err := cmd.Flags().GetBool(s3InsecureFlag)
	if err != nil {
		return nil, err
	}
	cacheDir, err := cmd.Flags().GetString(dbCacheFlag)
	if err != nil {
		return nil, err
	}

	d := &databases{
		ctx:      cmd.Context(),
		endpoint: endpoint,
		insecure: insecure,
		cacheDir: cacheDir,
	}
	if d.ctx == nil {
		d.ctx = context.Background()
	}
	if memLimit > 0 || ioLimit > 0 {
		d.rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   memLimit,
			IOLimitBytesPerSec: ioLimit,
		})
	}
	return d, nil
}

func remotePath(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// direct reports whether a path bypasses the store layer: stdin always
// does, and local files do unless fetch limits apply.
func (d *databases) direct(path string) bool {
	return path == "-" || (!remotePath(path) && d.rc == nil)
}

// store resolves a database path to the store holding it and its blob name.
func (d *databases) store(path string) (blobstore.Store, string, error) {
	if !remotePath(path) {
		dir, name := filepath.Split(path)
		if dir == "" {
			dir = "."
		}
		store, err := blobstore.NewLocalStore(dir)
		return store, name, err
	}

	rest := strings.TrimPrefix(path, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, "", fmt.Errorf("bad database path %q: want s3://bucket/key", path)
	}
	if d.endpoint == "" {
		return nil, "", fmt.Errorf("no S3 endpoint configured for %q: set --%s or $MINIO_ENDPOINT", path, s3EndpointFlag)
	}

	client, err := minio.New(d.endpoint, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		}),
		Secure: !d.insecure,
	})
	if err != nil {
		return nil, "", err
	}

	var store blobstore.Store = miniostore.NewStore(client, bucket, "")
	if d.cacheDir != "" {
		cache, err := blobstore.NewLocalStore(d.cacheDir)
		if err != nil {
			return nil, "", err
		}
		store = blobstore.NewCachingStore(store, cache)
	}
	return store, key, nil
}

// openSequences reads a FASTA database argument into a sequence block.
func (d *databases) openSequences(path string, alphabet *seq.Alphabet) (*seq.SequenceBlock, error) {
	if d.direct(path) {
		return fasta.OpenBlock(path, alphabet)
	}
	store, name, err := d.store(path)
	if err != nil {
		return nil, err
	}
	return fasta.FetchBlock(d.ctx, store, name, alphabet, d.rc)
}

// openModels reads a text profile database argument.
func (d *databases) openModels(path string) ([]*profile.Model, error) {
	if d.direct(path) {
		return hmmfile.Open(path)
	}
	store, name, err := d.store(path)
	if err != nil {
		return nil, err
	}
	return hmmfile.FetchModels(d.ctx, store, name, d.rc)
}

// openProfiles reads a profile database argument, text or pressed, into a
// ready-to-scan block. Pressed databases are detected by their .hgp
// extension.
func (d *databases) openProfiles(path string) (*profile.Block, error) {
	if strings.HasSuffix(path, ".hgp") {
		if d.direct(path) {
			return hmmfile.OpenPressed(path)
		}
		store, name, err := d.store(path)
		if err != nil {
			return nil, err
		}
		return hmmfile.FetchPressed(d.ctx, store, name, d.rc)
	}

	models, err := d.openModels(path)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("profile database %s is empty", path)
	}
	block := profile.NewBlock(models[0].Alphabet())
	for _, m := range models {
		if err := block.Append(profile.Optimize(m)); err != nil {
			return nil, err
		}
	}
	return block, nil
}
