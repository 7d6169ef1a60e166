package resource

import "github.com/enescakir/emoji"

const (
	ProjectName    = "scrawl"
	ProjectVersion = "v0.1.0"
	GithubUrl      = "https://github.com/scrawl-games/scrawl"
)

const Graffiti = `
 ___  ___ _ __ __ ___      _| |
/ __|/ __| '__/ _' \ \ /\ / / |
\__ \ (__| | | (_| |\ V  V /| |
|___/\___|_|  \__,_| \_/\_/ |_|
`

var GreetingCLI = emoji.ArtistPalette.String() + " %s %s - multiplayer drawing & guessing server\n" +
	emoji.Pencil.String() + " one player draws, everyone else guesses\n" +
	"project on github: %s\n\n"

// user-facing error messages, sent as error{message} to the requesting
// connection only
var (
	TextRoomExistsMsg          = "Room already exists"
	TextRoomNotFoundMsg        = "Room not found"
	TextRoomFullMsg            = "Room is full"
	TextGameAlreadyStartedMsg  = "Game already started"
	TextNotHostMsg             = "Only host can start game"
	TextInsufficientPlayersMsg = "Need at least 2 players"
	TextRoomCodeRequiredMsg    = "Room code is required"
	TextAlreadyInRoomMsg       = "Already in a room"
	TextUnknownEventMsg        = "Unknown event"
	TextMalformedPayloadMsg    = "Malformed event payload"
)
