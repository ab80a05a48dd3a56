package fixtures

import "github.com/killallgit/vaultchat/pkg/chatui"

// PDFProcessing is the server side of loading a PDF up to ready
func PDFProcessing() []chatui.Event {
	return []chatui.Event{
		chatui.Connect{},
		chatui.Status{Message: "Reading PDF...", Icon: "📄"},
		chatui.Status{Message: "Creating Vector Embeddings...", Icon: "🧠"},
		chatui.Status{Message: "Finalizing index...", Icon: "⚙️"},
		chatui.Ready{},
	}
}

// CSVProcessing loads a CSV and ends with a data preview
func CSVProcessing() []chatui.Event {
	return []chatui.Event{
		chatui.Connect{},
		chatui.Status{Message: "Loading CSV...", Icon: "📊"},
		chatui.Ready{Preview: "<table><tr><th>region</th><th>revenue</th></tr><tr><td>EU</td><td>4.1M</td></tr></table>"},
	}
}

// StreamedAnswer is one full retrieval turn
func StreamedAnswer(chunks ...string) []chatui.Event {
	events := []chatui.Event{
		chatui.ProcessStatus{Step: chatui.StepThinking, Message: "Deconstructing query..."},
		chatui.ProcessStatus{Step: chatui.StepIndexing, Message: "Found 2 relevant sections", Data: []chatui.IndexCard{
			{ID: "1", Page: "4", Content: "Revenue grew 12% year over year."},
			{ID: "2", Page: "7", Content: "Operating margin held at 18%."},
		}},
		chatui.StreamStart{},
	}
	for _, c := range chunks {
		events = append(events, chatui.StreamChunk{Chunk: c})
	}
	return append(events, chatui.StreamEnd{Sources: "q3-report.pdf p.4\nq3-report.pdf p.7"})
}
