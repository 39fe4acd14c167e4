package db

import (
	"context"
	"fmt"

	"github.com/treffchat/treffchat/internal/models"
	"go.uber.org/zap"
)

func strptr(s string) *string { return &s }

// seedChannels is the static channel/region directory. End users never
// create channels; this list is the whole catalog.
var seedChannels = []models.Channel{
	{Name: "Ankündigungen", Slug: "ankuendigungen", Type: models.ChannelTypeChannel, Icon: "megaphone-outline", IconLibrary: "Ionicons", Description: strptr("Wichtige Ankündigungen und Updates"), IsDefault: true, SortOrder: 1},
	{Name: "Intros", Slug: "intros", Type: models.ChannelTypeChannel, Icon: "hand-left-outline", IconLibrary: "Ionicons", Description: strptr("Stell dich der Community vor"), IsDefault: true, SortOrder: 2},
	{Name: "Podcast", Slug: "podcast", Type: models.ChannelTypeChannel, Icon: "mic-outline", IconLibrary: "Ionicons", Description: strptr("Podcast Diskussionen"), SortOrder: 3},
	{Name: "OpenClaw", Slug: "openclaw", Type: models.ChannelTypeChannel, Icon: "code-slash-outline", IconLibrary: "Ionicons", Description: strptr("OpenClaw Projekt"), SortOrder: 4},
	{Name: "Off-Topic", Slug: "off-topic", Type: models.ChannelTypeChannel, Icon: "chatbubble-ellipses-outline", IconLibrary: "Ionicons", Description: strptr("Alles was sonst nirgends passt"), SortOrder: 5},
	{Name: "Berlin", Slug: "berlin", Type: models.ChannelTypeRegion, Icon: "location-outline", IconLibrary: "Ionicons", SortOrder: 1},
	{Name: "München", Slug: "muenchen", Type: models.ChannelTypeRegion, Icon: "location-outline", IconLibrary: "Ionicons", SortOrder: 2},
	{Name: "Cape Town", Slug: "cape-town", Type: models.ChannelTypeRegion, Icon: "location-outline", IconLibrary: "Ionicons", SortOrder: 3},
	{Name: "NRW", Slug: "nrw", Type: models.ChannelTypeRegion, Icon: "location-outline", IconLibrary: "Ionicons", SortOrder: 4},
}

// SeedChannels inserts the channel directory if the table is empty.
// No-op on every subsequent startup.
func (db *DB) SeedChannels(ctx context.Context) error {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM channels)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check channels: %w", err)
	}
	if exists {
		return nil
	}

	for _, ch := range seedChannels {
		_, err := db.pool.Exec(ctx, `
			INSERT INTO channels (name, slug, type, icon, icon_library, description, is_default, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ch.Name, ch.Slug, ch.Type, ch.Icon, ch.IconLibrary, ch.Description, ch.IsDefault, ch.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("seed channel %s: %w", ch.Slug, err)
		}
	}

	db.logger.Info("seeded channel directory", zap.Int("count", len(seedChannels)))
	return nil
}
