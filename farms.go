package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Sajmani/smartfarm/export"
	"github.com/Sajmani/smartfarm/smartfarm"
)

// fetchFarms returns the farm list, or nil after logging why it couldn't.
func fetchFarms(api apiClient, log *zap.Logger) []smartfarm.Record {
	farms, err := api.FarmRecords()
	if err != nil {
		var de *smartfarm.DecodeError
		if errors.As(err, &de) {
			log.Error("Failed decoding farm list", zap.Error(err), zap.ByteString("body", de.Body))
		} else {
			log.Error("Farm list request failed", zap.Error(err))
		}
		return nil
	}
	return farms
}

func printFarms(w io.Writer, farms []smartfarm.Record) {
	fmt.Fprintln(w, "\n=== Smart farms ===")
	fmt.Fprintf(w, "Found %d farms.\n\n", len(farms))
	for _, f := range farms {
		fmt.Fprintf(w, "Farm ID: %s\n", f.UserID())
		fmt.Fprintf(w, "Facility ID: %s\n", f.FacilityID())
		fmt.Fprintf(w, "Address: %s\n", f.AddressName())
		fmt.Fprintf(w, "Item code: %s\n", f.ItemCode())
		fmt.Fprintln(w, strings.Repeat("-", 50))
	}
}

// syncFarms fetches the farm list, prints it and saves it to path.
// Nothing is saved when the list is empty or the fetch failed.
// It returns the number of farms saved.
func syncFarms(api apiClient, path string, w io.Writer, log *zap.Logger) int {
	farms := fetchFarms(api, log)
	if farms == nil {
		return 0
	}
	printFarms(w, farms)
	if len(farms) == 0 {
		log.Warn("No farms returned; not saving farm list", zap.String("path", path))
		return 0
	}
	if err := export.WriteJSON(path, farms); err != nil {
		log.Error("Failed saving farm list", zap.String("path", path), zap.Error(err))
		return 0
	}
	log.Info("Saved farm list", zap.String("path", path), zap.Int("farms", len(farms)))
	return len(farms)
}
