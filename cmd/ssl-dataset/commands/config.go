package commands

import (
	"ssl-dataset/lib/configutil"
	"ssl-dataset/lib/dataset"
	"ssl-dataset/lib/datastore"
	"ssl-dataset/lib/scrapers/fetch"
	"ssl-dataset/lib/scrapers/sportde"
	"ssl-dataset/lib/scrapers/weltfussball"
	"time"
)

type OutputConfig struct {
	Standings  string `json:"standings"`
	FinalScore string `json:"final_score"`
	FullSeason string `json:"full_season"`
}

type Config struct {
	StandingsBaseUrl string `json:"standings_base_url"`
	FixturesBaseUrl  string `json:"fixtures_base_url"`
	UserAgent        string `json:"user_agent"`
	// 0 means requests never time out
	TimeoutSeconds int              `json:"timeout_seconds"`
	Output         OutputConfig     `json:"output"`
	Db             datastore.Config `json:"db"`
}

func DefaultConfig() Config {
	return Config{
		StandingsBaseUrl: sportde.DefaultBaseUrl,
		FixturesBaseUrl:  weltfussball.DefaultBaseUrl,
		UserAgent:        fetch.DefaultUserAgent,
		Output: OutputConfig{
			Standings:  "data/raw/raw_data.csv",
			FinalScore: "data/raw/raw_data_final_score.csv",
			FullSeason: "data/raw/raw_data_full_season.csv",
		},
	}
}

// ReadConfig reads the config at `path`, every key it leaves out keeps its
// default value.
func ReadConfig(path string) (Config, error) {
	return configutil.ReadConfigWithDefaults(path, DefaultConfig())
}

func (c Config) Sources() dataset.Sources {
	return dataset.Sources{
		Standings: c.StandingsBaseUrl,
		Fixtures:  c.FixturesBaseUrl,
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
