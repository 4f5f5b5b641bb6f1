package core

// CategorySuggestions lists the suggested categories per transaction type.
// Categories are not enforced: any label is accepted.
var CategorySuggestions = map[TransactionType][]string{
	Income:  {"Salario", "Freelance", "Agencia", "Inversiones", "Otros"},
	Expense: {"Vivienda", "Comida", "Transporte", "Ocio", "Salud", "Educación", "Suscripciones", "Otros"},
	Savings: {"Fondo de Emergencia", "Inversión", "Retiro", "Ahorro General", "Objetivos", "Otro"},
}

// RevenueKeywords are lowercase title fragments (billing, income, salary)
// marking a currency key result as revenue rather than a savings target.
var RevenueKeywords = []string{"factur", "ingreso", "sueldo"}

// MonthLabels are short month names, index 0 = January.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Suggestions returns a copy of the suggested categories for t.
func Suggestions(t TransactionType) []string {
	return append([]string(nil), CategorySuggestions[t]...)
}

func ptr[T any](v T) *T { return &v }

// SeedObjectives returns the default objectives shown for an empty account.
// Every call returns fresh values.
func SeedObjectives() []Objective {
	return []Objective{
		{
			ID: "1", Title: "Estar en forma y saludable", Category: "Salud", Icon: "💪", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "1-1", Title: "Peso ideal", StartValue: ptr(85.0), CurrentValue: 85, TargetValue: 75, Unit: "kg", Type: Numerical, TemplateID: "exercise"},
				{ID: "1-2", Title: "Correr 5k", StartValue: ptr(0.0), CurrentValue: 0, TargetValue: 5, Unit: "km", Type: Numerical, TemplateID: "exercise"},
			},
		},
		{
			ID: "2", Title: "Independencia: Nuevo Apartamento", Category: "Vida", Icon: "🏢", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "2-1", Title: "Ahorro Inicial Mudanza", TargetValue: 1200, Unit: "$", Type: Currency, TemplateID: "money"},
				{ID: "2-2", Title: "Renta Mensual Sostenible", TargetValue: 200, Unit: "$/mes", Type: Currency, TemplateID: "money"},
			},
		},
		{
			ID: "3", Title: "Upgrade Personal: Imagen y Tech", Category: "Estilo", Icon: "🕶️", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "3-1", Title: "Comprar iPhone", TargetValue: 1000, Unit: "$", Type: Currency, TemplateID: "buy"},
				{ID: "3-2", Title: "Renovar Guardarropa", TargetValue: 500, Unit: "$", Type: Currency, TemplateID: "buy"},
			},
		},
		{
			ID: "4", Title: "Desarrollo Profesional & Agencia", Category: "Carrera", Icon: "🚀", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "4-1", Title: "Facturación Agencia", TargetValue: 22000, Unit: "$", Type: Currency, TemplateID: "money"},
				{ID: "4-2", Title: "Abrir Sede CCS", TargetValue: 1, Unit: "sede", Type: Boolean, Description: "Buscar oficina y contratar equipo base"},
				{ID: "4-3", Title: "Crear super CRM", TargetValue: 100, Unit: "%", Type: Numerical, Description: "Mejor que los del mercado"},
			},
		},
		{
			ID: "5", Title: "Libertad Financiera Personal", Category: "Finanzas", Icon: "💰", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "5-1", Title: "Facturación Mensual Personal", TargetValue: 1000, Unit: "$/mes", Type: Currency, TemplateID: "money"},
			},
		},
		{
			ID: "6", Title: "Vehículo Propio", Category: "Metas", Icon: "🚗", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "6-1", Title: "Comprar Carro o Moto", TargetValue: 3000, Unit: "$", Type: Currency, TemplateID: "buy"},
			},
		},
		{
			ID: "7", Title: "Crecimiento y Trámites", Category: "Vida", Icon: "🎓", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "7-1", Title: "Licenciatura", TargetValue: 100, Unit: "%", Type: Numerical, TemplateID: "reading", Description: "Comenzar estudios"},
				{ID: "7-2", Title: "Pasaporte Venezolano", TargetValue: 1, Unit: "doc", Type: Boolean, Description: "Cita y trámite"},
				{ID: "7-3", Title: "Licencia de Conducir", TargetValue: 1, Unit: "doc", Type: Boolean},
			},
		},
		{
			ID: "8", Title: "Viajes y Experiencias", Category: "Vida", Icon: "✈️", Status: OnTrack,
			KeyResults: []KeyResult{
				{ID: "8-1", Title: "Viaje con Familia/Amigos", TargetValue: 1500, Unit: "$", Type: Currency, TemplateID: "money"},
			},
		},
	}
}
