package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconImage   = "\U000F02E9"
	IconText    = "\U000F0284"
	IconEdited  = ""
	IconUndo    = "\U000F054C"
	IconRedo    = "\U000F044E"
	IconFont    = ""
	IconNoImage = "\U000F082D"
)

// Status icons
var (
	IconCheck   = ""
	IconWarning = ""
	IconCross   = ""
)

// Notification icons
var (
	IconNotifyInfo    = ""
	IconNotifyWarning = IconWarning
	IconNotifyError   = ""
)
