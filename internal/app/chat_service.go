package app

import (
	"context"
	"errors"
	"strings"

	"climatebuddy/internal/domain"
)

// ErrEmptyMessage indicates a chat request without any user text.
var ErrEmptyMessage = errors.New("message is required")

// ChatService is the climate tutor. It is stateless: conversation history
// belongs to the client.
type ChatService struct{}

// NewChatService creates the tutor service.
func NewChatService() *ChatService {
	return &ChatService{}
}

// Subjects returns the topics the tutor can teach.
func (s *ChatService) Subjects() []string {
	out := make([]string, len(tutorSubjects))
	copy(out, tutorSubjects)
	return out
}

// Reply produces a tutoring answer adapted to the learner's age group and
// knowledge level, with follow-up topic suggestions.
func (s *ChatService) Reply(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, ErrEmptyMessage
	}

	topic := matchTopic(req.UserMessage, req.Subject)
	entry := tutorKnowledge[topic]

	body := entry.beginner
	switch req.KnowledgeLevel {
	case "intermediate":
		body = entry.intermediate
	case "advanced":
		body = entry.advanced
	}

	reply := greetingFor(req.AgeGroup) + " " + body
	if req.Location != "" {
		reply += " You can check the dashboard to see how this plays out in " + req.Location + "."
	}

	return &domain.ChatReply{
		Reply:           reply,
		SuggestedTopics: entry.related,
	}, nil
}

var tutorSubjects = []string{
	"climate basics",
	"weather and atmosphere",
	"air quality",
	"renewable energy",
	"carbon footprint",
	"sustainable living",
}

func greetingFor(ageGroup string) string {
	switch ageGroup {
	case "child":
		return "Great question! Let me explain it like a friendly teacher."
	case "teen":
		return "Good one! Let's dig into the science."
	case "adult":
		return "Let's look at this with some scientific context."
	default:
		return "Happy to help with that!"
	}
}

type topicEntry struct {
	beginner     string
	intermediate string
	advanced     string
	related      []string
}

// matchTopic picks the topic whose longest keyword appears in the message, so
// "wind power" outranks the bare "wind" and the choice is stable.
func matchTopic(message, subject string) string {
	lower := strings.ToLower(message)
	var best string
	bestLen := 0
	for _, tk := range topicKeywords {
		for _, kw := range tk.keywords {
			if len(kw) > bestLen && strings.Contains(lower, kw) {
				best, bestLen = tk.topic, len(kw)
			}
		}
	}
	if best != "" {
		return best
	}
	if _, ok := tutorKnowledge[subject]; ok {
		return subject
	}
	return "climate basics"
}

var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"weather and atmosphere", []string{"weather", "rain", "storm", "temperature", "atmosphere", "wind"}},
	{"air quality", []string{"air quality", "aqi", "pollution", "smog", "pm2.5", "ozone"}},
	{"renewable energy", []string{"solar", "wind power", "renewable", "energy", "turbine", "hydro"}},
	{"carbon footprint", []string{"carbon", "co2", "footprint", "emission"}},
	{"sustainable living", []string{"recycle", "sustainab", "plastic", "waste", "compost", "vegetarian"}},
}

var tutorKnowledge = map[string]topicEntry{
	"climate basics": {
		beginner:     "Climate is the usual weather a place has over many years. The planet is slowly getting warmer because gases from burning fuel trap extra heat, a bit like a blanket.",
		intermediate: "Climate describes long-term weather statistics. Greenhouse gases such as CO2 and methane absorb outgoing infrared radiation, raising the global mean temperature about 1.2°C above pre-industrial levels.",
		advanced:     "Climate is the statistical distribution of weather over decades. Radiative forcing from anthropogenic greenhouse gases (~3 W/m² since 1750) shifts the energy balance, with feedbacks from water vapour, albedo, and clouds setting the equilibrium climate sensitivity.",
		related:      []string{"carbon footprint", "weather and atmosphere"},
	},
	"weather and atmosphere": {
		beginner:     "Weather is what the sky is doing right now: sunny, rainy, or windy. It changes day to day, while climate is the long-run pattern.",
		intermediate: "Weather emerges from pressure gradients, humidity, and solar heating in the troposphere. Warmer air holds more moisture, which is why a warming climate intensifies heavy rainfall.",
		advanced:     "Synoptic weather is driven by baroclinic instability along the jet stream. Per Clausius-Clapeyron, saturation vapour pressure rises ~7% per °C, loading the dice for extreme precipitation events.",
		related:      []string{"air quality", "climate basics"},
	},
	"air quality": {
		beginner:     "Air quality tells us how clean the air is. Tiny particles and gases from cars and factories can make it unhealthy to breathe, which is what the AQI number measures.",
		intermediate: "The AQI aggregates pollutants such as PM2.5, NO2, and ozone. Values under 50 are good; above 150, sensitive groups should limit outdoor activity.",
		advanced:     "AQI maps pollutant concentrations onto health-impact breakpoints. PM2.5 penetrates to the alveoli; tropospheric ozone forms photochemically from NOx and VOCs, peaking on hot, stagnant afternoons.",
		related:      []string{"weather and atmosphere", "sustainable living"},
	},
	"renewable energy": {
		beginner:     "Renewable energy comes from sources that never run out, like sunshine and wind. Solar panels and wind turbines turn them into electricity without smoke.",
		intermediate: "Solar PV and wind are now the cheapest new generation in most markets. Their variability is managed with storage, grid interconnection, and demand response.",
		advanced:     "High renewable penetration shifts grid economics toward capacity markets and firming. Levelized costs for utility PV fell ~90% in a decade; the binding constraints are transmission build-out and long-duration storage.",
		related:      []string{"carbon footprint", "sustainable living"},
	},
	"carbon footprint": {
		beginner:     "Your carbon footprint is how much warming gas your choices add to the air. Walking instead of driving or wasting less food makes it smaller.",
		intermediate: "A carbon footprint sums direct and embodied emissions, measured in CO2-equivalents. Transport, housing energy, and diet dominate most personal footprints.",
		advanced:     "Footprint accounting spans Scope 1-3 emissions with global warming potentials normalizing non-CO2 gases. Consumption-based accounting reallocates embodied emissions from producers to consumers.",
		related:      []string{"sustainable living", "renewable energy"},
	},
	"sustainable living": {
		beginner:     "Sustainable living means using only what we need so the planet stays healthy: reusing things, saving water, and throwing away less.",
		intermediate: "Effective household steps rank roughly: low-carbon transport, home energy efficiency, plant-rich diet, and cutting food waste. Small habits compound.",
		advanced:     "Life-cycle assessment shows behaviour change can cut household emissions 20-30%; the rest requires systemic shifts in energy, industry, and land use. Rebound effects temper naive efficiency gains.",
		related:      []string{"carbon footprint", "air quality"},
	},
}
