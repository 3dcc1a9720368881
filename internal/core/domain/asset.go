package domain

import (
	"fmt"
	"strings"
)

// Address identifies an account (seller, buyer) or an asset registry.
// Addresses are compared case-insensitively; NormalizeAddress is applied
// at every ingress point so the core can use plain equality.
type Address string

// NormalizeAddress lowercases and trims an address string.
func NormalizeAddress(s string) Address {
	return Address(strings.ToLower(strings.TrimSpace(s)))
}

func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// AssetKey is the composite identity of one asset: the registry that tracks
// its ownership plus the registry-scoped token identifier. It is the sole key
// into the listing registry.
type AssetKey struct {
	Registry Address `json:"registry"`
	TokenID  string  `json:"token_id"`
}

// NewAssetKey builds a normalized AssetKey.
func NewAssetKey(registry string, tokenID string) AssetKey {
	return AssetKey{
		Registry: NormalizeAddress(registry),
		TokenID:  strings.TrimSpace(tokenID),
	}
}

// String renders the key as "registry/tokenID", used for cache and log keys.
func (k AssetKey) String() string {
	return fmt.Sprintf("%s/%s", k.Registry, k.TokenID)
}

// IsZero reports whether either component is missing.
func (k AssetKey) IsZero() bool {
	return k.Registry.IsZero() || k.TokenID == ""
}
