package seed

type sampleUser struct {
	NickName string
	Email    string
}

type samplePost struct {
	Author      string
	Description string
	Tags        []string
	Images      []string
}

type sampleComment struct {
	Post    int // index into Posts
	Author  string
	Content string
}

// Dataset is the sample content loaded by Run.
type Dataset struct {
	Users    []sampleUser
	Tags     []string
	Posts    []samplePost
	Comments []sampleComment
}

func picsum(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/800/600"
}

// Sample is the default dataset: six users, seven tags and twelve posts
// with their images and comments.
var Sample = Dataset{
	Users: []sampleUser{
		{"luna", "luna@example.com"},
		{"sol", "sol@example.com"},
		{"alex", "alex@example.com"},
		{"emma", "emma@example.com"},
		{"carlos", "carlos@example.com"},
		{"sofia", "sofia@example.com"},
	},
	Tags: []string{"arte", "unahur", "tecnologia", "naturaleza", "fotografia", "reflexiones", "viajes"},
	Posts: []samplePost{
		{"luna", "🌅 Amanecer perfecto para reflexionar sobre la vida. A veces las mejores ideas llegan cuando menos las esperamos.",
			[]string{"reflexiones", "naturaleza"}, []string{picsum("sunrise1")}},
		{"sol", "Compartiendo mi proyecto final de la UNaHur 💻 Fue un desafío pero aprendí muchísimo!",
			[]string{"unahur", "tecnologia"}, []string{picsum("code1"), picsum("code2")}},
		{"alex", "La naturaleza siempre me sorprende 🌿 Este lugar es increíble",
			[]string{"naturaleza", "fotografia"}, []string{picsum("nature1")}},
		{"emma", "☕ Momento café mientras codifico. React es amor ❤️",
			[]string{"tecnologia", "reflexiones"}, []string{picsum("coffee1")}},
		{"carlos", "Atardecer en la ciudad. La belleza está en los detalles 🌆",
			[]string{"fotografia", "viajes"}, []string{picsum("sunset1"), picsum("sunset2")}},
		{"sofia", "Sesión de fotos de hoy 📸 La luz estaba perfecta",
			[]string{"fotografia", "arte"}, []string{picsum("photo1"), picsum("photo2"), picsum("photo3")}},
		{"luna", "Reflexiones nocturnas: El código más limpio es el que no necesitas escribir 💭",
			[]string{"reflexiones", "tecnologia"}, nil},
		{"alex", "🎨 Nuevo proyecto de diseño en el que estoy trabajando. Pronto les muestro más!",
			[]string{"arte", "unahur"}, []string{picsum("design1")}},
		{"emma", "La arquitectura de esta ciudad es impresionante 🏛️",
			[]string{"viajes", "fotografia"}, []string{picsum("architecture1"), picsum("architecture2")}},
		{"sofia", "Momento de desconexión. A veces hay que apagar todo y disfrutar 🧘‍♀️",
			[]string{"reflexiones"}, nil},
		{"sol", "Aprendiendo TypeScript y es increíble cómo mejora la productividad 🚀",
			[]string{"tecnologia", "unahur"}, nil},
		{"carlos", "La naturaleza es la mejor artista 🌺",
			[]string{"naturaleza", "arte"}, []string{picsum("flower1")}},
	},
	Comments: []sampleComment{
		{0, "sol", "¡Qué hermosa reflexión! 💭"},
		{0, "alex", "Me encanta esta foto"},
		{1, "luna", "Felicitaciones! Se ve increíble 🎉"},
		{1, "emma", "Buen trabajo!"},
		{1, "carlos", "Inspirador 💪"},
		{2, "sofia", "Wow! Dónde es esto?"},
		{2, "luna", "Hermoso lugar"},
		{3, "sol", "El café del desarrollador ☕"},
		{4, "alex", "Qué colores! 😍"},
		{4, "emma", "Espectacular"},
		{5, "carlos", "Excelente trabajo fotográfico!"},
		{5, "luna", "Me encanta la composición"},
		{6, "sofia", "Totalmente de acuerdo 👏"},
		{7, "sol", "Qué ganas de ver el resultado!"},
		{8, "alex", "Impresionante arquitectura"},
		{9, "carlos", "Necesito hacer lo mismo!"},
		{10, "luna", "TypeScript es lo mejor!"},
		{10, "alex", "Estoy de acuerdo, cambió mi forma de programar"},
		{11, "emma", "Hermosa fotografía 🌺"},
	},
}
