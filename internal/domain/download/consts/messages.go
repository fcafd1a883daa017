package consts

// User facing texts
const (
	MsgWelcome         = "Welcome, <b><em>%s</em></b>\nSend YouTube link to download the video."
	MsgHelp            = "Send me a YouTube link (watch, youtu.be, shorts or embed) and pick <b>Video</b> or <b>Audio</b>.\n\n/start - greeting\n/help - this message"
	MsgUnknownText     = "I do not understand you."
	MsgTooManyRequests = "Too many requests, please slow down."
	MsgTooBig          = "Video size is too big. Please choose a smaller video."
	MsgDownloadStarted = "Downloading started..."
	MsgFinishedVideo   = "Finished downloading, sending video back..."
	MsgFinishedAudio   = "Finished downloading, sending audio back..."
	MsgDownloadFailed  = "Error downloading the video. Please try again."
	MsgAudioFailed     = "Error downloading the audio. Please try again."
	MsgSendFailed      = "Unexpected error occured while sending the file, please try again."
	MsgMetadataFailed  = "Error occurred while fetching video details. Please try again."
	MsgBadOption       = "This option is no longer valid. Please send the link again."
	MsgOptionAccepted  = "Got it!"
	MsgNotAllowed      = "This command is not available."
	MsgStatsFailed     = "Could not collect stats."
	MsgSelectOptions   = "Please select download options below👇👇👇"
	ButtonVideo        = "🎬 Video"
	ButtonAudio        = "🎵 Audio"
)
