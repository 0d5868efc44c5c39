package resolver

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/finsightlab/finsight/internal/models"
)

// tableFile is the on-disk TOML shape of an alias table.
type tableFile struct {
	Version     string              `toml:"version"`
	Instruments []models.AliasEntry `toml:"instruments"`
}

// LoadTableFile reads an alias table from a TOML file. Entry order in the
// file is preserved; it is the fuzzy-match tie-break order.
func LoadTableFile(path string) (*models.AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias table %s: %w", path, err)
	}

	var tf tableFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse alias table %s: %w", path, err)
	}
	if tf.Version == "" {
		return nil, fmt.Errorf("alias table %s has no version", path)
	}
	if len(tf.Instruments) == 0 {
		return nil, fmt.Errorf("alias table %s has no instruments", path)
	}

	return models.NewAliasTable(tf.Version, tf.Instruments), nil
}

// DefaultTable returns the built-in alias table covering commonly described
// NSE large-caps. Used when no aliases.path is configured.
func DefaultTable() *models.AliasTable {
	return models.NewAliasTable("builtin-2026.08", []models.AliasEntry{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Aliases: []string{"tata consultancy"}},
		{Symbol: "INFY", Name: "Infosys", Aliases: []string{"infosys ltd"}},
		{Symbol: "RELIANCE", Name: "Reliance Industries", Aliases: []string{"reliance"}},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Aliases: []string{"hdfc"}},
		{Symbol: "ICICIBANK", Name: "ICICI Bank", Aliases: []string{"icici"}},
		{Symbol: "SBIN", Name: "State Bank of India", Aliases: []string{"sbi"}},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Aliases: []string{"airtel"}},
		{Symbol: "ITC", Name: "ITC Limited"},
		{Symbol: "LT", Name: "Larsen & Toubro", Aliases: []string{"l&t"}},
		{Symbol: "ASIANPAINT", Name: "Asian Paints"},
		{Symbol: "BAJFINANCE", Name: "Bajaj Finance"},
		{Symbol: "MARUTI", Name: "Maruti Suzuki", Aliases: []string{"maruti"}},
		{Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Aliases: []string{"hul"}},
		{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Aliases: []string{"kotak"}},
		{Symbol: "AXISBANK", Name: "Axis Bank", Aliases: []string{"axis"}},
		{Symbol: "M&M", Name: "Mahindra & Mahindra"},
		{Symbol: "SUNPHARMA", Name: "Sun Pharmaceutical", Aliases: []string{"sun pharma"}},
		{Symbol: "DRREDDY", Name: "Dr Reddy's Laboratories", Aliases: []string{"dr reddy"}},
		{Symbol: "TECHM", Name: "Tech Mahindra"},
		{Symbol: "HCLTECH", Name: "HCL Technologies", Aliases: []string{"hcl tech"}},
		{Symbol: "TITAN", Name: "Titan Company", Aliases: []string{"titan"}},
		{Symbol: "WIPRO", Name: "Wipro"},
		{Symbol: "NESTLEIND", Name: "Nestle India", Aliases: []string{"nestle"}},
		{Symbol: "BAJAJ-AUTO", Name: "Bajaj Auto"},
		{Symbol: "POWERGRID", Name: "Power Grid Corporation", Aliases: []string{"power grid"}},
		{Symbol: "NTPC", Name: "NTPC Limited"},
		{Symbol: "COALINDIA", Name: "Coal India"},
		{Symbol: "ONGC", Name: "Oil and Natural Gas Corporation"},
		{Symbol: "IOC", Name: "Indian Oil Corporation", Aliases: []string{"indian oil"}},
		{Symbol: "BPCL", Name: "Bharat Petroleum"},
		{Symbol: "TATASTEEL", Name: "Tata Steel"},
		{Symbol: "JSWSTEEL", Name: "JSW Steel"},
		{Symbol: "ULTRACEMCO", Name: "UltraTech Cement", Aliases: []string{"ultratech"}},
		{Symbol: "GRASIM", Name: "Grasim Industries"},
		{Symbol: "ADANIENT", Name: "Adani Enterprises"},
		{Symbol: "ADANIPORTS", Name: "Adani Ports"},
		{Symbol: "EICHERMOT", Name: "Eicher Motors"},
	})
}
