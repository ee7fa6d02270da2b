package topics

import "strings"

// DefaultLanguage is used when a batch does not declare a language with a known stop-word list.
const DefaultLanguage = "en"

var stopwordLists = map[string][]string{
	"en": {
		"a", "about", "above", "across", "after", "afterwards", "again", "against", "all", "almost",
		"alone", "along", "already", "also", "although", "always", "am", "among", "amongst", "amoungst",
		"amount", "an", "and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere",
		"are", "around", "as", "at", "back", "be", "became", "because", "become", "becomes", "becoming",
		"been", "before", "beforehand", "behind", "being", "below", "beside", "besides", "between",
		"beyond", "bill", "both", "bottom", "but", "by", "call", "can", "cannot", "cant", "co", "con",
		"could", "couldnt", "cry", "de", "describe", "detail", "do", "done", "down", "due", "during",
		"each", "eg", "eight", "either", "eleven", "else", "elsewhere", "empty", "enough", "etc", "even",
		"ever", "every", "everyone", "everything", "everywhere", "except", "few", "fifteen", "fifty",
		"fill", "find", "fire", "first", "five", "for", "former", "formerly", "forty", "found",
		"four", "from", "front", "full", "further", "get", "give", "go", "had", "has", "hasnt", "have",
		"he", "hence", "her", "here", "hereafter", "hereby", "herein", "hereupon", "hers", "herself",
		"him", "himself", "his", "how", "however", "hundred", "i", "ie", "if", "in", "inc", "indeed",
		"interest", "into", "is", "it", "its", "itself", "keep", "last", "latter", "latterly", "least",
		"less", "ltd", "made", "many", "may", "me", "meanwhile", "might", "mill", "mine", "more",
		"moreover", "most", "mostly", "move", "much", "must", "my", "myself", "name", "namely",
		"neither", "never", "nevertheless", "next", "nine", "no", "nobody", "none", "noone", "nor",
		"not", "nothing", "now", "nowhere", "of", "off", "often", "on", "once", "one", "only", "onto",
		"or", "other", "others", "otherwise", "our", "ours", "ourselves", "out", "over", "own", "part",
		"per", "perhaps", "please", "put", "rather", "re", "same", "see", "seem", "seemed", "seeming",
		"seems", "serious", "several", "she", "should", "show", "side", "since", "sincere", "six",
		"sixty", "so", "some", "somehow", "someone", "something", "sometime", "sometimes", "somewhere",
		"still", "such", "system", "take", "ten", "than", "that", "the", "their", "them", "themselves",
		"then", "thence", "there", "thereafter", "thereby", "therefore", "therein", "thereupon", "these",
		"they", "thick", "thin", "third", "this", "those", "though", "three", "through",
		"throughout", "thru", "thus", "to", "together", "too", "top", "toward", "towards", "twelve",
		"twenty", "two", "un", "under", "until", "up", "upon", "us", "very", "via", "was", "we", "well",
		"were", "what", "whatever", "when", "whence", "whenever", "where", "whereafter", "whereas",
		"whereby", "wherein", "whereupon", "wherever", "whether", "which", "while", "whither", "who",
		"whoever", "whole", "whom", "whose", "why", "will", "with", "within", "without", "would", "yet",
		"you", "your", "yours", "yourself", "yourselves",
	},
	"ru": {
		"и", "в", "во", "не", "что", "он", "на", "я", "с", "со", "как", "а", "то", "все",
		"она", "так", "его", "но", "да", "ты", "к", "у", "же", "вы", "за", "бы", "по",
		"только", "ее", "мне", "было", "вот", "от", "меня", "еще", "нет", "о", "из", "ему",
		"теперь", "когда", "даже", "ну", "вдруг", "ли", "если", "уже", "или", "ни", "быть",
		"был", "него", "до", "вас", "нибудь", "опять", "уж", "вам", "ведь", "там", "потом",
		"себя", "ничего", "ей", "может", "они", "тут", "где", "есть", "надо", "ней", "для",
		"мы", "тебя", "их", "чем", "была", "сам", "чтоб", "без", "будто", "чего", "раз",
		"тоже", "себе", "под", "будет", "ж", "тогда", "кто", "этот", "того", "потому",
		"этого", "какой", "совсем", "ним", "здесь", "этом", "один", "почти", "мой", "тем",
		"чтобы", "нее", "были", "куда", "зачем", "всех", "никогда", "можно", "при", "наконец",
		"два", "об", "другой", "хоть", "после", "над", "больше", "тот", "через", "эти", "нас",
		"про", "всего", "них", "какая", "много", "разве", "три", "эту", "моя", "впрочем",
		"хорошо", "свою", "этой", "перед", "иногда", "лучше", "чуть", "том", "нельзя", "такой",
		"им", "более", "всегда", "конечно", "всю", "между", "это",
	},
}

// StopWords returns the stop-word set for lang, falling back to DefaultLanguage.
func StopWords(lang string) map[string]struct{} {
	words, ok := stopwordLists[normalizeLanguage(lang)]
	if !ok {
		words = stopwordLists[DefaultLanguage]
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// normalizeLanguage reduces tags like "en-US" or "RU" to their primary subtag.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
