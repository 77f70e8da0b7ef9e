package config

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterSource is the subset of the SSM client used to fetch parameters.
type ParameterSource interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func loadSSMParameters(ctx context.Context, prefix string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	return ExportParameters(ctx, ssm.NewFromConfig(awsCfg), prefix)
}

// ExportParameters copies every parameter under prefix into the process
// environment, keyed by the last path segment. Variables that are already set
// win over SSM.
func ExportParameters(ctx context.Context, source ParameterSource, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(source, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	exported := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if _, set := os.LookupEnv(key); set {
				continue
			}
			if err := os.Setenv(key, aws.ToString(p.Value)); err != nil {
				return err
			}
			exported++
		}
	}

	log.Info().Str("path", prefix).Int("exported", exported).Msg("Loaded parameters from SSM")
	return nil
}
