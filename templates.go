package main

// ChallengeTemplate is a predefined action offered when co2_entry is "template".
// Points and CO2 are copied into the new challenge as is.
type ChallengeTemplate struct {
	ID     int    `yaml:"id"`
	Action string `yaml:"action"`
	Points int    `yaml:"points"`
	CO2    string `yaml:"co2"`
}

func defaultChallengeTemplates() []ChallengeTemplate {
	return []ChallengeTemplate{
		{ID: 1, Action: "Пешая прогулка/велопоездка вместо авто (5 км)", Points: 10, CO2: "1.1 кг CO₂"},
		{ID: 2, Action: "Использование общественного транспорта вместо такси (10 км)", Points: 15, CO2: "1.5 - 1.7 кг CO₂"},
		{ID: 3, Action: "Экономия 1 кВт*ч электроэнергии", Points: 5, CO2: "0.5 кг CO₂"},
		{ID: 4, Action: "Сдача 1 кг макулатуры", Points: 8, CO2: "1.0 - 1.3 кг CO₂"},
		{ID: 5, Action: "Правильная утилизация 1 кг пластика (ПЭТ)", Points: 20, CO2: "2.0 кг CO₂"},
		{ID: 6, Action: "Пользуйся многоразовой бутылкой (отказ от 1 бутылки 0.5л)", Points: 3, CO2: "0.1 - 0.15 кг CO₂"},
		{ID: 7, Action: "Экономия 100 литров горячей воды (60°C)", Points: 30, CO2: "3.0 - 3.5 кг CO₂"},
		{ID: 8, Action: "Посадка 1 дерева", Points: 50, CO2: "Поглощает 12-25 кг CO₂/год"},
	}
}

func findTemplate(templates []ChallengeTemplate, id int) (ChallengeTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return ChallengeTemplate{}, false
}
