// Package models defines the core domain models for seedfund.
//
// # Campaigns
//
// A Campaign is the canonical server record for a funding request. It is
// built up incrementally by the creation wizard: the first data-bearing step
// creates the record and every later step sends a CampaignPatch against the
// returned ID.
//
// # Business Types
//
// Entrepreneurs describe one of three business shapes (an idea, a business
// already started, or a planned business not yet started). The shape-specific
// fields live in BusinessDetails, a tagged union keyed by BusinessType, so the
// common fields never carry optional per-shape data.
//
// # Design Principles
//
//  1. Relationships use ID strings instead of pointers
//  2. Money is stored as whole currency units (int64)
//  3. Timestamps are Unix seconds, matching the storage layer
package models
