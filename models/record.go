// Package models defines data structures shared across the decompression pipeline.
package models

// Record represents one product item carrying a compressed HTML payload.
//
// During extraction RawHTML holds the base64-encoded compressed payload;
// after processing it holds the decompressed content.
type Record struct {
	ID             string `yaml:"id,omitempty" json:"id,omitempty"`
	Name           string `yaml:"name" json:"name"`
	Category       string `yaml:"category,omitempty" json:"category,omitempty"`
	Domain         string `yaml:"domain,omitempty" json:"domain,omitempty"`
	URL            string `yaml:"url,omitempty" json:"url,omitempty"`
	ImageURL       string `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Price          string `yaml:"price,omitempty" json:"price,omitempty"`
	OriginalPrice  string `yaml:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Shipping       string `yaml:"shipping,omitempty" json:"shipping,omitempty"`
	IsSponsored    bool   `yaml:"isSponsored,omitempty" json:"isSponsored,omitempty"`
	Timestamp      string `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
	TTL            string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
	RawHTML        string `yaml:"rawHtml" json:"rawHtml"`
	RawTextContent string `yaml:"rawTextContent,omitempty" json:"rawTextContent,omitempty"`
}

// BatchStats holds the aggregate counters for a single run.
// Counters only accumulate; they are read once for the post-run summary
// and never drive control flow.
type BatchStats struct {
	TotalProcessed   int
	TotalInputBytes  int64
	TotalOutputBytes int64
	SuccessCount     int
	ErrorCount       int
}
