// Dump is a tool for inspecting the raw cropping season records of one farm,
// including the records that smartfarm filters out.
package main

import (
	"log"
	"os"

	"github.com/kr/pretty"

	"github.com/Sajmani/smartfarm/config"
	"github.com/Sajmani/smartfarm/smartfarm"
)

const UserAgent = "smartfarm-dump/0.1"

func main() {
	if len(os.Args) != 2 {
		log.Println("usage: dump USER_ID")
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	client := smartfarm.NewClient(cfg.BaseURL, cfg.ServiceKey, UserAgent,
		smartfarm.WithInsecureCroppingTLS(cfg.CroppingInsecureTLS))

	records, err := client.CroppingSeasons(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	log.Println("downloaded", len(records), "records")
	for _, r := range records {
		pretty.Println(r.Map())
	}
}
