package triage

// Keyword phrase lists, one per symptom flag. Every phrase is lowercase
// ASCII; inputs pass through normalize.Fold before matching, so
// "Cirugía" and "cirugia" hit the same entry. Matching is plain
// substring containment: a phrase inside a longer word still counts.

var postOperativeKeywords = []string{
	"posoperatorio",
	"post operatorio",
	"postoperatorio",
	"cirugia",
	"operacion",
	"operado",
	"operada",
	"intervencion",
}

var significantBleedingKeywords = []string{
	"sangrado abundante",
	"sangra mucho",
	"sangrado activo",
	"no deja de sangrar",
	"hemorragia",
}

var highFeverKeywords = []string{
	"fiebre alta",
	"mucha fiebre",
	"fiebre de 38",
	"fiebre de 39",
	"fiebre de 40",
	"temperatura de 38",
	"temperatura de 39",
	"temperatura de 40",
	"temperatura alta",
}

var breathingDifficultyKeywords = []string{
	"dificultad para respirar",
	"no puede respirar",
	"le cuesta respirar",
	"respira con dificultad",
	"se ahoga",
	"falta de aire",
}

var severePainKeywords = []string{
	"dolor intenso",
	"dolor fuerte",
	"dolor severo",
	"mucho dolor",
	"dolor insoportable",
	"dolor que no cede",
}

var woundInfectionKeywords = []string{
	"pus",
	"secrecion",
	"mal olor",
	"herida abierta",
	"herida roja",
	"herida inflamada",
	"herida infectada",
	"se abrio la herida",
	"puntos abiertos",
}

var feedingProblemsKeywords = []string{
	"no gana peso",
	"se atora",
	"no come",
	"no quiere comer",
	"se ahoga al comer",
	"dificultad para comer",
	"no succiona",
	"dificultad para succionar",
	"leche sale por la nariz",
	"regurgita",
}

var speechProblemsKeywords = []string{
	"habla nasal",
	"voz nasal",
	"no pronuncia",
	"dificultad para hablar",
	"problemas de habla",
	"no se le entiende",
	"rinolalia",
}

var earSignsKeywords = []string{
	"oido",
	"otitis",
	"no escucha",
	"no oye",
	"infecciones de oido",
}

var emotionalImpactKeywords = []string{
	"triste",
	"tristeza",
	"burlas",
	"se burlan",
	"bullying",
	"acoso",
	"verguenza",
	"ansiedad",
	"deprimido",
	"deprimida",
	"aislado",
	"aislada",
	"baja autoestima",
	"no quiere ir a la escuela",
}
