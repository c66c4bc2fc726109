package storage

import (
	"context"
	"fmt"

	"strata/internal/util"
	"strata/pkg/logger"
	"strata/pkg/ontology"
	"strata/pkg/store"
)

const defaultContourMapKey = "contour_maps/approved.json"

// NewContourMapFetcher selects the approved contour map source by
// environment: CONTOUR_MAP_FILE reads a local file for development, otherwise
// the map is pulled from the S3 object named by CONTOUR_MAP_KEY on every
// rebuild so an approval lands without a redeploy.
func NewContourMapFetcher(ctx context.Context) store.ContourMapFetcher {
	if path := util.GetEnvString("CONTOUR_MAP_FILE", ""); path != "" {
		logger.Info("[Storage] Using local contour map", "path", path)
		return func(context.Context) (*ontology.ContourMap, error) {
			return ontology.LoadContourMapFile(path)
		}
	}

	client := NewS3Client(ctx)
	key := util.GetEnvString("CONTOUR_MAP_KEY", defaultContourMapKey)
	return func(ctx context.Context) (*ontology.ContourMap, error) {
		if client == nil {
			return nil, fmt.Errorf("s3 client unavailable")
		}
		data, err := GetFile(ctx, client, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contour map: %w", err)
		}
		return ontology.ParseContourMap(data)
	}
}
