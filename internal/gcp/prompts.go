package gcp

// ExtractionPrompt is sent alongside every page image. The service was built
// for Spanish-speaking users, so the instruction is kept in Spanish; the model
// answers in the language of the page regardless.
const ExtractionPrompt = `
Analiza esta página de PDF y extrae todo el texto visible incluyendo:
- Texto normal
- Texto en tablas (preservando la estructura)
- Texto en imágenes si es legible
- Cualquier otro contenido textual

Devuelve el solo el texto extraído de forma estructurada y legible, no incluyas comentarios ni razonamiento alguno.
`

// DefaultModel is the Gemini model used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-1.5-flash"
