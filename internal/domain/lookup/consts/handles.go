package consts

// RandomHandles is the curated list /random picks from
var RandomHandles = []string{
	"telegram", "github", "durov", "elonmusk", "nasa",
	"billgates", "cristiano", "taylorswift", "neymarjr",
	"kyliejenner", "therock", "selenagomez", "kingjames",
	"justinbieber", "kimkardashian", "twitter", "instagram",
	"facebook", "whatsapp", "discord", "microsoft", "google",
	"apple", "netflix", "spotify", "amazon", "youtube",
	"wikipedia", "bbc", "cnn", "nytimes", "forbes",
}
