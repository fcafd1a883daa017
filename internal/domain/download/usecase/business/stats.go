package business

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
)

const bytesInGB = 1 << 30

// HandleStats sends download and host figures to the bot owner.
// Other chats get a refusal and ErrNotOwner.
func (uc *UseCase) HandleStats(ctx context.Context, chatID int64) error {
	if uc.settings.OwnerChatID == 0 || chatID != uc.settings.OwnerChatID {
		uc.logger.Warn().Int64("chat_id", chatID).Msg("Stats requested by non-owner")
		if _, err := uc.sender.SendMessage(ctx, chatID, consts.MsgNotAllowed, nil); err != nil {
			return err
		}
		return downloaderrors.ErrNotOwner
	}

	stats, err := uc.history.Stats(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("Failed to aggregate download history")
		uc.notify(ctx, chatID, consts.MsgStatsFailed)
		return err
	}

	snapshot, err := uc.probe.Snapshot(ctx, uc.settings.TempDir)
	if err != nil {
		// history alone is still worth showing
		uc.logger.Warn().Err(err).Msg("Failed to read system snapshot")
	}

	_, err = uc.sender.SendMessage(ctx, chatID, FormatStats(stats, snapshot), nil)
	return err
}

// FormatStats renders stats as HTML, snapshot may be nil
func FormatStats(stats *entities.DownloadStats, snapshot *entities.SystemSnapshot) string {
	var b strings.Builder

	b.WriteString("<b>Downloads</b>\n")
	fmt.Fprintf(&b, "Total: %d\n", stats.Total)

	states := make([]string, 0, len(stats.ByState))
	for state := range stats.ByState {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		fmt.Fprintf(&b, "%s: %d\n", state, stats.ByState[state])
	}
	fmt.Fprintf(&b, "Delivered: %.2f GB\n", float64(stats.TotalBytes)/bytesInGB)

	if snapshot == nil {
		return b.String()
	}

	b.WriteString("\n<b>System</b>\n")
	fmt.Fprintf(&b, "CPU: %.1f%%\n", snapshot.CPUPercent)
	fmt.Fprintf(&b, "Memory: %.2f / %.2f GB\n", float64(snapshot.MemUsed)/bytesInGB, float64(snapshot.MemTotal)/bytesInGB)
	fmt.Fprintf(&b, "Disk free: %.2f / %.2f GB\n", float64(snapshot.DiskFree)/bytesInGB, float64(snapshot.DiskTotal)/bytesInGB)
	fmt.Fprintf(&b, "Uptime: %s\n", snapshot.Uptime.Truncate(time.Second))
	fmt.Fprintf(&b, "Goroutines: %d", snapshot.Goroutines)

	return b.String()
}
