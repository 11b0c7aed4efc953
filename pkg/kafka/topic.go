package kafka

// TopicPrefix namespaces every topic this module writes to.
const TopicPrefix = "tryo"

// Topic returns "tryo.<domain>.<action>", e.g. tryo.collection.changed.
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
