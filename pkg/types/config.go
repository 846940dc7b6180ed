package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// All submission dates and cooldown math use this zone.
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`

	// Session storage. Redis is used when an address is set, otherwise
	// sessions live in process memory and are lost on restart.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// WhatsApp Cloud API
	WhatsAppToken         string `envconfig:"WHATSAPP_API_TOKEN"`
	WhatsAppPhoneNumberID string `envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppVerifyToken   string `envconfig:"WHATSAPP_VERIFY_TOKEN"`
	AssetBaseURL          string `envconfig:"ASSET_BASE_URL"`

	// Photo evidence archival. When empty, inbound media keeps the
	// provider media id as its reference.
	MediaBucket string `envconfig:"MEDIA_BUCKET"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	Profile Profile
}

// Profile carries the constituency copy injected into outbound messages.
type Profile struct {
	CandidateName    string `envconfig:"CANDIDATE_NAME" default:"Ramesh Kumaran"`
	Constituency     string `envconfig:"CONSTITUENCY" default:"Thenpalani"`
	Parliament       string `envconfig:"PARLIAMENT" default:"Madurai"`
	CoordinatorName  string `envconfig:"WARD_COORDINATOR_NAME" default:"Suresh Murugan"`
	CoordinatorPhone string `envconfig:"WARD_COORDINATOR_PHONE" default:"+919876543210"`
	CoordinatorArea  string `envconfig:"WARD_COORDINATOR_AREA" default:"Gandhi Nagar"`
	FamilyHubURL     string `envconfig:"FAMILY_HUB_URL" default:"https://example.org/family"`
	DigitalWingURL   string `envconfig:"DIGITAL_WING_URL" default:"https://example.org/itwing"`
	InviteNumber     string `envconfig:"INVITE_NUMBER" default:"+91-XXXXXXXXXX"`
}
