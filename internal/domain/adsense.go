package domain

import "time"

// AdSenseConfig is the singleton ad network configuration.
type AdSenseConfig struct {
	ID            string    `json:"id" doc:"Config ID"`
	PublisherID   string    `json:"publisher_id" doc:"AdSense publisher ID"`
	HeaderSlot    *string   `json:"header_slot" doc:"Header ad slot ID"`
	SidebarSlot   *string   `json:"sidebar_slot" doc:"Sidebar ad slot ID"`
	InArticleSlot *string   `json:"in_article_slot" doc:"In-article ad slot ID"`
	FooterSlot    *string   `json:"footer_slot" doc:"Footer ad slot ID"`
	Enabled       bool      `json:"enabled" doc:"Whether ads are rendered"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// PublicAdSenseConfig is the subset of the config safe to hand to anonymous readers.
type PublicAdSenseConfig struct {
	HeaderSlot    *string `json:"header_slot" doc:"Header ad slot ID"`
	SidebarSlot   *string `json:"sidebar_slot" doc:"Sidebar ad slot ID"`
	InArticleSlot *string `json:"in_article_slot" doc:"In-article ad slot ID"`
	FooterSlot    *string `json:"footer_slot" doc:"Footer ad slot ID"`
	Enabled       bool    `json:"enabled" doc:"Whether ads are rendered"`
}

// Public strips identifying and bookkeeping fields.
func (c *AdSenseConfig) Public() *PublicAdSenseConfig {
	if c == nil {
		return nil
	}
	return &PublicAdSenseConfig{
		HeaderSlot:    c.HeaderSlot,
		SidebarSlot:   c.SidebarSlot,
		InArticleSlot: c.InArticleSlot,
		FooterSlot:    c.FooterSlot,
		Enabled:       c.Enabled,
	}
}
