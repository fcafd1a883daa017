// Package consts contains constants for the download domain
package consts

// Bot commands
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
	CommandStats = "/stats"
)

// CallbackPrefix starts every option token
const CallbackPrefix = "o_"

// StartSticker is sent before the welcome text
const StartSticker = "CAACAgIAAxkBAAJnbmeY4z-vd2dRm7x536yTBXUWQssOAAIFAAPANk8T-WpfmoJrTXU2BA"
