package board

// DefaultCatalog is the message catalog every board starts with.
var DefaultCatalog = []Entry{
	{Name: "Print", Textual: true},
	{Name: "Say", Textual: true},
	{Name: "Speech", Textual: true},
	{Name: "QSay", Textual: true},
	{Name: "SpeechOutput", Textual: true, Initial: "true"},
	{Name: "HeadMovement", Textual: true, Initial: "0,0"},
	{Name: "WALK_Command", Textual: true, Initial: "0,0,0,0"},
	{Name: "MicrowaveStatus", Textual: true, Initial: "false"},
	{Name: "SensorsTorso", Textual: true},
	{Name: "TeleoperationControl", Textual: true},
	{Name: "VisionImage"},
	{Name: "wb_reserved_SubscribeToAllTypes"},
}

// New returns the default board for the identifier id.
func New(id string) *Memory {
	return NewMemory(id, DefaultCatalog)
}
