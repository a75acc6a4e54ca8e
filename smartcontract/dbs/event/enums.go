package event

type (
	EventType int
	EventTag  int
)

const (
	TypeNone EventType = iota
	TypeError
	TypeChain
	TypeStats
	NumberOfTypes
)

var TypeString = []string{"none", "error", "chain", "stats"}

func (t EventType) String() string {
	if int(t) < len(TypeString) && int(t) >= 0 {
		return TypeString[t]
	}

	return "unknown type"
}

func (t EventType) Int() int {
	return int(t)
}

const (
	TagNone EventTag = iota
	TagCoolDownExpirationChanged
	TagMinerBound
	TagMinerUnbound
	TagMinerStarted
	TagMinerStopped
	TagMinerReclaimed
	TagMinerEnterUnresponsive
	TagMinerExitUnresponsive
	TagMinerSettled
	TagTokenomicParametersChanged
	TagSubsidyPoolWithdrawn
	NumberOfTags
)

var TagString = []string{
	"None",
	"CoolDownExpirationChanged",
	"MinerBound",
	"MinerUnbound",
	"MinerStarted",
	"MinerStopped",
	"MinerReclaimed",
	"MinerEnterUnresponsive",
	"MinerExitUnresponsive",
	"MinerSettled",
	"TokenomicParametersChanged",
	"SubsidyPoolWithdrawn",
}

func (tag EventTag) String() string {
	if int(tag) < len(TagString) && int(tag) >= 0 {
		return TagString[tag]
	}

	return "unknown tag"
}

func (tag EventTag) Int() int {
	return int(tag)
}
