package engine

// Phrase pools for the composer. Every variant is a literal the persona can
// say as-is; decks guarantee no repeats within a session while unused
// variants remain.

const (
	poolNonsense   = "nonsense"
	poolTooShort   = "too_short"
	poolGratitude  = "gratitude_warm"
	poolColdness   = "coldness_complaint"
	poolSimplify   = "simplify_request"
	poolFormality  = "form_not_person"
	poolWavering   = "negotiation_wavering"
	poolAccepting  = "negotiation_accepting"
	poolReadiness  = "readiness"
	poolCloseYes   = "closing_accept"
	poolCloseNo    = "closing_decline"
	poolPriceReact = "price_reaction"
	poolTimeReact  = "duration_reaction"
	poolGuarantee  = "guarantee_reaction"
	poolSafety     = "safety_reaction"
	poolRephrase   = "jargon_rephrase"
	poolChallenge  = "challenge"
	poolThanks     = "empathy_ack"
	poolFiller     = "neutral_filler"
)

func questionPool(t Topic) string { return "question_" + string(t) }
func followUpPool(t Topic) string { return "followup_" + string(t) }

// ObjectionCategory is one of the doubt flavors the persona can inject
// unprompted.
type ObjectionCategory string

const (
	ObjectionPrice           ObjectionCategory = "price"
	ObjectionTime            ObjectionCategory = "time"
	ObjectionTrust           ObjectionCategory = "trust"
	ObjectionAlternatives    ObjectionCategory = "alternatives"
	ObjectionComparison      ObjectionCategory = "comparison"
	ObjectionFear            ObjectionCategory = "fear"
	ObjectionProcrastination ObjectionCategory = "procrastination"
	ObjectionThirdParty      ObjectionCategory = "thirdparty"
)

var objectionCategories = []ObjectionCategory{
	ObjectionPrice, ObjectionTime, ObjectionTrust, ObjectionAlternatives,
	ObjectionComparison, ObjectionFear, ObjectionProcrastination, ObjectionThirdParty,
}

func objectionPool(c ObjectionCategory) string { return "objection_" + string(c) }

var phrasePools = map[string][]string{
	poolNonsense: {
		"Простите, я совсем не понял, что вы написали... Можете повторить нормально?",
		"Извините, но это какой-то набор букв. Вы это мне?",
		"Что-то я не разберу ваше сообщение. Напишите, пожалуйста, словами.",
		"Э-э-э... Я не понимаю. Это вообще был ответ на мой вопрос?",
	},
	poolTooShort: {
		"Хм, это слишком коротко. Расскажите, пожалуйста, больше.",
		"Мне нужно больше информации, чтобы принять решение.",
		"Извините, но я не очень понял ваш ответ. Можете пояснить подробнее?",
		"И это всё? Я надеялся на более подробный ответ.",
	},
	poolGratitude: {
		"Спасибо, что понимаете меня. Мне правда легче стало.",
		"Вы очень внимательны, приятно с вами разговаривать.",
		"Спасибо за поддержку. Я чувствую, что вы на моей стороне.",
		"Благодарю за понимание. Теперь мне не так тревожно.",
	},
	poolColdness: {
		"Мне кажется, вы не слышите мои опасения...",
		"Вы как-то холодно со мной разговариваете. Мне и так непросто.",
		"Такое чувство, что мои переживания вас не особо интересуют.",
	},
	poolSimplify: {
		"А можно попроще? Я не всё понимаю из того, что вы говорите.",
		"Извините, я запутался. Объясните простыми словами, пожалуйста.",
		"Что-то сложно для меня... Расскажите попроще?",
	},
	poolFormality: {
		"Вы всё по делу говорите, но как-то по анкете... Я же живой человек.",
		"Всё очень профессионально, но мне не хватает простого человеческого участия.",
		"Вы как будто инструкцию зачитываете. Поговорите со мной нормально.",
	},
	poolWavering: {
		"Я всё ещё сомневаюсь... Надо подумать.",
		"Не знаю, не знаю. Пока не уверен, что мне это подходит.",
		"Вы меня не до конца убедили, честно говоря.",
	},
	poolAccepting: {
		"Ну, звучит разумно. Кажется, вы правы.",
		"Хорошо, в этом есть смысл. Я начинаю вам доверять.",
		"Ладно, вы меня почти убедили.",
	},
	poolReadiness: {
		"Знаете, я готов записаться! Когда можно прийти?",
		"Отлично, давайте определимся с датой записи.",
		"Вы меня убедили. Хочу записаться на приём.",
		"Супер! Как мне записаться?",
	},
	poolCloseYes: {
		"Спасибо вам огромное за помощь! Я приду.",
		"Вы очень помогли мне разобраться. Записывайте меня.",
		"Теперь всё понятно, благодарю! До встречи в клинике.",
	},
	poolCloseNo: {
		"Спасибо за время, но я, пожалуй, ещё подумаю и посмотрю другие варианты.",
		"Нет, я пока не готов. Может быть, вернусь позже.",
		"Что-то не очень убедительно. Посмотрю другие клиники.",
	},
	poolPriceReact: {
		"Ого, вы сразу цифры называете... Мне нужно прикинуть бюджет.",
		"Понятно, по деньгам я услышал. Надо подумать, потяну ли.",
		"Спасибо за конкретику по цене, это важно.",
	},
	poolTimeReact: {
		"То есть по срокам примерно так... Хорошо, что сказали заранее.",
		"Понятно, сколько времени это займёт. Мне нужно спланировать дела.",
		"Хорошо, что назвали сроки, так спокойнее.",
	},
	poolGuarantee: {
		"Вы говорите «гарантирую», но разве в медицине бывают гарантии?",
		"Гарантируете? Звучит громко. А если всё-таки не получится?",
		"Хотелось бы верить вашим гарантиям... Чем они подкреплены?",
	},
	poolSafety: {
		"Хорошо, что вы сказали про безопасность, меня это волновало.",
		"Безопасно — это главное. Спасибо, что успокоили.",
		"Ладно, про безопасность услышал. Надеюсь, так и есть.",
	},
	poolRephrase: {
		"А можно без медицинских терминов? Я запутался.",
		"Это как-то слишком научно звучит. Объясните простыми словами?",
		"Простите, я не врач. Что это значит по-человечески?",
	},
	poolChallenge: {
		"А вы уверены? Я в интернете читал совсем другое.",
		"Хм, знакомая рассказывала, что всё совсем не так...",
		"Вы точно ничего не приукрашиваете? Я слышал другие мнения.",
	},
	poolThanks: {
		"Спасибо вам, что так терпеливо со мной разговариваете.",
		"Приятно, что вы отвечаете на все мои вопросы.",
		"Спасибо, что уделяете мне столько времени.",
	},
	poolFiller: {
		"Понимаю... А дальше что?",
		"Хорошо, продолжайте.",
		"Слушаю вас.",
		"Да, я с вами.",
		"Расскажите ещё.",
	},

	// Topic questions.
	"question_treatment": {
		"А как именно будет проходить лечение?",
		"Расскажите подробнее, что вы будете делать?",
		"Какие этапы лечения меня ждут?",
		"Можете описать процедуру по шагам?",
	},
	"question_pain": {
		"Скажите честно, это больно?",
		"Я очень боюсь боли... Как это будет?",
		"А как насчёт боли? Это терпимо?",
	},
	"question_cost": {
		"А сколько это будет стоить?",
		"Давайте поговорим о стоимости.",
		"Можете сказать примерную цену?",
	},
	"question_time": {
		"Сколько времени займёт лечение?",
		"Как долго мне придётся ходить на процедуры?",
		"Когда можно ждать результата?",
	},
	"question_safety": {
		"А это безопасно?",
		"Какие могут быть риски?",
		"Расскажите про возможные осложнения.",
	},
	"question_results": {
		"А какой будет результат?",
		"Насколько это эффективно?",
		"Какие шансы на успех?",
	},
	"question_experience": {
		"А у вас большой опыт таких процедур?",
		"У вас много пациентов с такой проблемой?",
		"Вы давно этим занимаетесь?",
	},

	// Deep-dive follow-ups on already discussed topics.
	"followup_treatment": {
		"А есть альтернативные варианты лечения?",
		"Что если мне не подойдёт эта процедура?",
	},
	"followup_pain": {
		"А после процедуры долго будет болеть?",
		"Что делать, если анестезия не подействует?",
	},
	"followup_cost": {
		"А можно оплатить в рассрочку?",
		"Есть какие-то акции или скидки?",
	},
	"followup_time": {
		"Как скоро я смогу вернуться к обычной жизни?",
		"Через сколько можно будет работать?",
	},
	"followup_safety": {
		"А у вас бывали осложнения у пациентов?",
		"Как вы действуете, если что-то идёт не так?",
	},
	"followup_results": {
		"А результат надолго сохранится?",
		"Что будет, если эффект не наступит?",
	},
	"followup_experience": {
		"А можно посмотреть отзывы ваших пациентов?",
		"Расскажите про похожий случай из практики.",
	},

	// Unprompted objections, eight flavors.
	"objection_price": {
		"Слушайте, а это вообще подъёмные деньги? Мне кажется, дороговато.",
		"Честно говоря, для меня это серьёзная сумма...",
		"А почему так дорого? В чём разница с местами подешевле?",
	},
	"objection_time": {
		"У меня сейчас совсем нет времени на долгое лечение...",
		"Это же сколько визитов! Я столько не выдержу.",
		"Боюсь, с моим графиком я не смогу ходить так часто.",
	},
	"objection_trust": {
		"А вы уверены, что это поможет именно мне?",
		"Откуда мне знать, что вы не преувеличиваете?",
		"Я уже обжигался на обещаниях врачей...",
	},
	"objection_alternatives": {
		"Может, есть способ попроще? Таблетки какие-нибудь?",
		"А если просто подождать — само не пройдёт?",
		"Я читал, что есть и другие методы. Почему именно этот?",
	},
	"objection_comparison": {
		"В другой клинике мне предлагали то же самое дешевле.",
		"Знакомый делал похожую процедуру в другом месте, и ему понравилось.",
		"Чем вы лучше клиники через дорогу?",
	},
	"objection_fear": {
		"Мне всё равно страшно... А вдруг что-то пойдёт не так?",
		"Я очень боюсь врачей, если честно. Еле заставил себя написать.",
		"Ночами не сплю, всё думаю об этой процедуре...",
	},
	"objection_procrastination": {
		"Может, я лучше приду через месяц-другой? Сейчас не лучший момент.",
		"Давайте я подумаю и сам перезвоню, хорошо?",
		"Наверное, это не так срочно. Подожду пока.",
	},
	"objection_thirdparty": {
		"Мне нужно посоветоваться с женой, прежде чем решать.",
		"Мама говорит, что такие вещи лучше не трогать...",
		"Друзья отговаривают, говорят — пустая трата денег.",
	},

	// Contradiction call-outs; each variant takes the two conflicting words.
	"contradiction": {
		"Подождите, вы раньше говорили «%s», а теперь «%s». Так как всё-таки?",
		"Я запутался: сначала было «%s», теперь «%s»... Где правда?",
		"Хм, вы сами себе противоречите: то «%s», то «%s».",
	},
}
