package domain

import "sort"

// trendingTopicLimit caps the trending-topics list.
const trendingTopicLimit = 5

// TopicCount is one trending-topic entry.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// SentimentDistribution counts reports by analyzed tone.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// CommunicationAnalysis is the aggregated view over a communication
// snapshot: the records themselves plus trending topics and sentiment.
type CommunicationAnalysis struct {
	Communications        []CommunicationRecord `json:"communications"`
	TrendingTopics        []TopicCount          `json:"trendingTopics"`
	TotalAnalyzed         int                   `json:"totalAnalyzed"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
}

// AnalyzeCommunications aggregates a communication snapshot. Trending
// topics are the top five by count descending; equal counts order
// alphabetically so output is reproducible.
func AnalyzeCommunications(comms []CommunicationRecord) CommunicationAnalysis {
	counts := make(map[string]int)
	var dist SentimentDistribution

	for i := range comms {
		for _, topic := range comms[i].Topics {
			counts[topic]++
		}
		switch comms[i].Sentiment {
		case SentimentPositive:
			dist.Positive++
		case SentimentNegative:
			dist.Negative++
		case SentimentNeutral:
			dist.Neutral++
		}
	}

	trending := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		trending = append(trending, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Topic < trending[j].Topic
	})
	if len(trending) > trendingTopicLimit {
		trending = trending[:trendingTopicLimit]
	}

	return CommunicationAnalysis{
		Communications:        comms,
		TrendingTopics:        trending,
		TotalAnalyzed:         len(comms),
		SentimentDistribution: dist,
	}
}
