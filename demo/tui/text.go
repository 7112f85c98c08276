package tui

// UI Text Constants
const (
	TextTitle        = "Exportar para Mockup"
	TextInstructions = "Clique no botão abaixo para iniciar a exportação do design."
	TextButtonIdle   = "Exportar Design"
	TextButtonBusy   = "Aguarde..."

	TextFooterIdle = "Press 'enter' to export | Press 'q' to quit"
	TextFooterBusy = "Export in progress... | Press 'q' to quit"
)
