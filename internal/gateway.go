package internal

// RenderGateway reflects state changes in a view. Implementations only read
// what they are handed; all mutations go through the Store.
type RenderGateway interface {
	RenderMessage(msg Message)
	RenderChatList(chats []Chat, activeID string, visible []bool)
	ShowComposingIndicator()
	HideComposingIndicator()
	ClearConversationView()
	ShowNoResults(query string)
	HideNoResults()
}

// NopGateway discards every render call
type NopGateway struct{}

func (NopGateway) RenderMessage(Message)                 {}
func (NopGateway) RenderChatList([]Chat, string, []bool) {}
func (NopGateway) ShowComposingIndicator()               {}
func (NopGateway) HideComposingIndicator()               {}
func (NopGateway) ClearConversationView()                {}
func (NopGateway) ShowNoResults(string)                  {}
func (NopGateway) HideNoResults()                        {}
