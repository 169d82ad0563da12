package i18n

// catalog holds the UI string tables. The default language's table defines
// the full key set; the other tables may be sparse and fall back to it.
var catalog = map[Language]map[string]string{
	PortugueseBR: {
		"prompt.placeholder":        "Digite um comando ou fale com o assistente...",
		"label.you":                 "Você",
		"label.assistant":           "Assistente",
		"label.error":               "Erro",
		"label.voice_message":       "Mensagem de voz",
		"status.listening":          "Ouvindo...",
		"status.recording":          "Gravando...",
		"status.processing":         "Processando...",
		"status.idle":               "Pronto",
		"reply.none":                "Sem resposta do assistente.",
		"error.connection":          "Não foi possível conectar ao assistente. Tente novamente.",
		"error.capture_unsupported": "Captura de voz não disponível neste ambiente. Você ainda pode digitar.",
		"error.mic_denied":          "Não foi possível acessar o microfone.",
		"error.recognition":         "Não foi possível reconhecer a fala.",
		"feedback.empty":            "Escreva uma mensagem antes de enviar o feedback.",
		"feedback.sent":             "Feedback enviado. Obrigado!",
		"feedback.failed":           "Não foi possível enviar o feedback. Tente novamente.",
		"actions.title":             "Ações sugeridas",
		"history.empty":             "Nenhuma conversa registrada ainda.",
	},
	EnglishUS: {
		"prompt.placeholder":        "Type a command or talk to the assistant...",
		"label.you":                 "You",
		"label.assistant":           "Assistant",
		"label.error":               "Error",
		"label.voice_message":       "Voice message",
		"status.listening":          "Listening...",
		"status.recording":          "Recording...",
		"status.processing":         "Processing...",
		"status.idle":               "Ready",
		"reply.none":                "No response from the assistant.",
		"error.connection":          "Could not reach the assistant. Please try again.",
		"error.capture_unsupported": "Voice capture is not available here. You can still type.",
		"error.mic_denied":          "Could not access the microphone.",
		"error.recognition":         "Could not recognize the speech.",
		"feedback.empty":            "Write a message before sending feedback.",
		"feedback.sent":             "Feedback sent. Thank you!",
		"feedback.failed":           "Could not send feedback. Please try again.",
		"actions.title":             "Suggested actions",
		"history.empty":             "No conversation recorded yet.",
	},
	SpanishES: {
		"prompt.placeholder":        "Escribe un comando o habla con el asistente...",
		"label.you":                 "Tú",
		"label.assistant":           "Asistente",
		"label.error":               "Error",
		"label.voice_message":       "Mensaje de voz",
		"status.listening":          "Escuchando...",
		"status.recording":          "Grabando...",
		"status.processing":         "Procesando...",
		"status.idle":               "Listo",
		"reply.none":                "Sin respuesta del asistente.",
		"error.connection":          "No se pudo conectar con el asistente. Inténtalo de nuevo.",
		"error.capture_unsupported": "La captura de voz no está disponible. Aún puedes escribir.",
		"error.mic_denied":          "No se pudo acceder al micrófono.",
		"feedback.empty":            "Escribe un mensaje antes de enviar tu opinión.",
		"feedback.sent":             "Opinión enviada. ¡Gracias!",
		"feedback.failed":           "No se pudo enviar la opinión. Inténtalo de nuevo.",
		"actions.title":             "Acciones sugeridas",
	},
	ArabicSA: {
		"prompt.placeholder":        "اكتب أمرًا أو تحدث إلى المساعد...",
		"label.you":                 "أنت",
		"label.assistant":           "المساعد",
		"label.error":               "خطأ",
		"label.voice_message":       "رسالة صوتية",
		"status.listening":          "...جارٍ الاستماع",
		"status.recording":          "...جارٍ التسجيل",
		"status.processing":         "...جارٍ المعالجة",
		"status.idle":               "جاهز",
		"reply.none":                ".لا يوجد رد من المساعد",
		"error.connection":          ".تعذر الاتصال بالمساعد. حاول مرة أخرى",
		"error.capture_unsupported": ".التقاط الصوت غير متاح هنا. لا يزال بإمكانك الكتابة",
		"error.mic_denied":          ".تعذر الوصول إلى الميكروفون",
		"feedback.empty":            ".اكتب رسالة قبل إرسال الملاحظات",
		"feedback.sent":             "!تم إرسال الملاحظات. شكرًا",
		"feedback.failed":           ".تعذر إرسال الملاحظات. حاول مرة أخرى",
	},
}

// Keys returns the full key set, as defined by the default language's table.
func Keys() []string {
	table := catalog[Default]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	return keys
}
